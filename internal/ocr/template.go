package ocr

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/mattn/go-shellwords"
)

// Placeholders accepted in an OCR command template.
const (
	PlaceholderInput  = "{INPUT_FILE_PATH}"
	PlaceholderOutput = "{OUTPUT_SRT_PATH}"
	PlaceholderLang   = "{LANG_3_CODE}"
)

// envNames carry placeholder values into shell-mode commands so that
// values never become part of the script text.
var envNames = map[string]string{
	PlaceholderInput:  "SUBEXTRACT_INPUT_FILE_PATH",
	PlaceholderOutput: "SUBEXTRACT_OUTPUT_SRT_PATH",
	PlaceholderLang:   "SUBEXTRACT_LANG_3_CODE",
}

var placeholderRE = regexp.MustCompile(`\{[A-Za-z0-9_]+\}`)

// shellOperators force shell-mode execution when present in a template.
const shellOperators = "|&;<>$`()*?~"

// ErrInvalidTemplate is returned for templates that cannot be run.
var ErrInvalidTemplate = errors.New("invalid OCR command template")

// Values are substituted into a Template.
type Values struct {
	Input  string
	Output string
	Lang   string
}

func (v Values) lookup(placeholder string) string {
	switch placeholder {
	case PlaceholderInput:
		return v.Input
	case PlaceholderOutput:
		return v.Output
	case PlaceholderLang:
		return v.Lang
	}
	return ""
}

// Template is a parsed OCR command template.
//
// Templates without shell operators are split into an argument vector and
// run directly. Templates using pipes, redirection, variables or similar
// run through the platform shell. In shell mode placeholder values are
// passed through environment variables, but the rest of the template is
// still interpreted by the shell, so shell mode must only be used with
// trusted configuration.
type Template struct {
	raw   string
	shell bool
	argv  []string
}

// ParseTemplate validates raw. Unknown placeholders are rejected and the
// input and output placeholders are required.
func ParseTemplate(raw string) (*Template, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidTemplate)
	}

	var unknown []string
	for _, ph := range placeholderRE.FindAllString(raw, -1) {
		if _, ok := envNames[ph]; !ok {
			unknown = append(unknown, ph)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: unknown placeholder(s) %s (allowed: %s, %s, %s)",
			ErrInvalidTemplate, strings.Join(unknown, ", "), PlaceholderInput, PlaceholderOutput, PlaceholderLang)
	}
	for _, req := range []string{PlaceholderInput, PlaceholderOutput} {
		if !strings.Contains(raw, req) {
			return nil, fmt.Errorf("%w: missing required placeholder %s", ErrInvalidTemplate, req)
		}
	}

	t := &Template{raw: raw}
	if strings.ContainsAny(raw, shellOperators) {
		t.shell = true
		return t, nil
	}

	line := raw
	if runtime.GOOS == "windows" {
		// keep path separators literal
		line = strings.ReplaceAll(line, `\`, `\\`)
	}
	argv, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: no program", ErrInvalidTemplate)
	}
	if placeholderRE.MatchString(argv[0]) {
		return nil, fmt.Errorf("%w: program name cannot be a placeholder", ErrInvalidTemplate)
	}
	t.argv = argv
	return t, nil
}

// UsesShell reports whether the template runs through the platform shell.
func (t *Template) UsesShell() bool { return t.shell }

// Program returns the executable the template starts.
func (t *Template) Program() string {
	if t.shell {
		return shellPath()
	}
	return t.argv[0]
}

func (t *Template) String() string { return t.raw }

// Command returns the executable, its arguments and any extra
// environment needed to run the template with v.
func (t *Template) Command(v Values) (path string, args []string, env []string) {
	if !t.shell {
		r := strings.NewReplacer(
			PlaceholderInput, v.Input,
			PlaceholderOutput, v.Output,
			PlaceholderLang, v.Lang,
		)
		args = make([]string, 0, len(t.argv)-1)
		for _, a := range t.argv[1:] {
			args = append(args, r.Replace(a))
		}
		return t.argv[0], args, nil
	}

	for ph, name := range envNames {
		env = append(env, name+"="+v.lookup(ph))
	}
	sort.Strings(env)
	if runtime.GOOS == "windows" {
		return shellPath(), []string{"/C", windowsScript(t.raw)}, env
	}
	return shellPath(), []string{"-c", posixScript(t.raw)}, env
}

func shellPath() string {
	if runtime.GOOS == "windows" {
		return "cmd"
	}
	return "sh"
}

// posixScript replaces each placeholder with a variable reference quoted
// for the position it appears in.
func posixScript(raw string) string {
	var b strings.Builder
	var inSingle, inDouble bool
	for i := 0; i < len(raw); {
		if !inSingle && raw[i] == '\\' && i+1 < len(raw) {
			b.WriteString(raw[i : i+2])
			i += 2
			continue
		}
		if raw[i] == '{' {
			if loc := placeholderRE.FindStringIndex(raw[i:]); loc != nil && loc[0] == 0 {
				name := envNames[raw[i:i+loc[1]]]
				switch {
				case inSingle:
					b.WriteString(`'"${` + name + `}"'`)
				case inDouble:
					b.WriteString(`${` + name + `}`)
				default:
					b.WriteString(`"${` + name + `}"`)
				}
				i += loc[1]
				continue
			}
		}
		switch raw[i] {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		}
		b.WriteByte(raw[i])
		i++
	}
	return b.String()
}

// windowsScript uses %VAR% references; cmd expands them inside quotes too.
func windowsScript(raw string) string {
	return placeholderRE.ReplaceAllStringFunc(raw, func(ph string) string {
		return "%" + envNames[ph] + "%"
	})
}
