package sass

// Indented selects the indented (.sass) syntax instead of SCSS.
const Indented = "--indented"

var Compiler compiler

type compiler struct{}

func (compiler) Name() string {
	return "sass"
}

func (compiler) Args(arg ...string) []string {
	var a = []string{
		"--stdin",
		"--no-source-map",
		"--style=expanded",
	}

	if len(arg) != 0 {
		a = append(a, arg...)
	}

	return a
}
