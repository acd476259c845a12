package main

import (
	"bytes"
	"embed"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var helpFS embed.FS

var helpTemplates = sync.OnceValue(func() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"flags": visibleFlags,
	}).ParseFS(helpFS, "templates/*.txt"))
})

// visibleFlags lists the flags of fs in lexical order.
func visibleFlags(fs *flag.FlagSet) []*flag.Flag {
	var out []*flag.Flag
	if fs != nil {
		fs.VisitAll(func(f *flag.Flag) { out = append(out, f) })
	}
	return out
}

// HelpData is a command that can describe its own usage.
type HelpData interface {
	Program() string
	FlagSet() *flag.FlagSet
}

// helpPage names the template for h: the subcommand word, or root.
func helpPage(h HelpData) string {
	words := strings.Fields(h.Program())
	if len(words) < 2 {
		return "root.txt"
	}
	return words[len(words)-1] + ".txt"
}

// UsageError reports bad command-line usage. Its message is the help page
// of the command that rejected the arguments.
type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	var buf bytes.Buffer
	if err := helpTemplates().ExecuteTemplate(&buf, helpPage(e.of), e.of); err != nil {
		return fmt.Sprintf("%s: rendering help: %v", e.of.Program(), err)
	}
	return buf.String()
}

// usageFunc renders the command's help page for flag.FlagSet.Usage.
func usageFunc(h HelpData) func() {
	return func() {
		fmt.Fprint(os.Stderr, (&UsageError{of: h}).Error())
	}
}
