package native

import (
	"strings"
	"testing"

	"github.com/chazu/caress/vm"
)

func TestLower(t *testing.T) {
	prog := vm.MustParse("+++[->++<]>.,`note`<<")
	text := Lower(prog).String()

	for _, want := range []string{
		"@tape = global [65536 x i8] zeroinitializer",
		"declare i32 @getchar()",
		"declare i32 @putchar(i32 %ch)",
		"define i32 @main()",
		"store i64 32768",
		"add i8",
		"and i64",
		"call i32 @putchar",
		"define i32 @readbyte()",
		"call i32 @getchar()",
		"call i32 @readbyte()",
		"icmp eq i32",
		"select i1",
		"loop3:",
		"body3:",
		"exit3:",
		"ret i32 0",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("IR missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "note") {
		t.Error("comments should not reach the IR")
	}
}

func TestLowerDecrementWraps(t *testing.T) {
	text := Lower(vm.MustParse("-")).String()
	if !strings.Contains(text, "add i8 %") || !strings.Contains(text, ", -1") {
		t.Errorf("decrement not lowered as adding -1:\n%s", text)
	}
}

func TestLowerNestedLoops(t *testing.T) {
	prog := vm.MustParse("+[>+[-]<-]")
	text := Lower(prog).String()
	for _, label := range []string{"loop1:", "loop4:", "exit4:", "exit1:"} {
		if !strings.Contains(text, label) {
			t.Errorf("IR missing block %q", label)
		}
	}
}

func TestWriteIR(t *testing.T) {
	var sb strings.Builder
	if err := WriteIR(&sb, vm.MustParse(".")); err != nil {
		t.Fatalf("WriteIR: %v", err)
	}
	if !strings.Contains(sb.String(), "@main") {
		t.Errorf("output = %q", sb.String())
	}
}

func TestLowerSkipsCarriageReturn(t *testing.T) {
	text := Lower(vm.MustParse(",")).String()
	start := strings.Index(text, "define i32 @readbyte()")
	if start < 0 {
		t.Fatalf("IR missing readbyte:\n%s", text)
	}
	fn := text[start:]
	fn = fn[:strings.Index(fn, "\n}")]
	for _, want := range []string{"call i32 @getchar()", "icmp eq i32", ", 13", "br i1", "label %again", "ret i32"} {
		if !strings.Contains(fn, want) {
			t.Errorf("readbyte missing %q:\n%s", want, fn)
		}
	}
}
