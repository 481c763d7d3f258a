package compiler

// Compile parses src and generates the tape-machine program for it.
func Compile(src string, opts Options) (string, error) {
	stmts, err := Parse(src)
	if err != nil {
		return "", err
	}
	return Generate(stmts, opts)
}
