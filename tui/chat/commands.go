package chat

import (
	"fmt"
	"strconv"
	"strings"

	"legal-assistant/document"
)

type commandKind int

const (
	cmdHelp commandKind = iota
	cmdMode
	cmdLoad
	cmdProcess
	cmdDocs
	cmdAnalyze
	cmdShow
	cmdCompare
	cmdExport
	cmdSearch
	cmdReset
)

// command is a parsed slash command
type command struct {
	kind commandKind
	args []string
}

type commandSpec struct {
	kind    commandKind
	minArgs int
	maxArgs int // -1 for no limit
	usage   string
}

var commandSpecs = map[string]commandSpec{
	"/help":    {cmdHelp, 0, 0, "/help"},
	"/mode":    {cmdMode, 1, 1, "/mode <general|cdc|cf88>"},
	"/load":    {cmdLoad, 1, -1, "/load <file> [file...]"},
	"/process": {cmdProcess, 0, 0, "/process"},
	"/docs":    {cmdDocs, 0, 0, "/docs"},
	"/analyze": {cmdAnalyze, 1, 1, "/analyze <n>"},
	"/show":    {cmdShow, 1, 1, "/show <n>"},
	"/compare": {cmdCompare, 2, 2, "/compare <n|reply> <file>"},
	"/export":  {cmdExport, 1, 1, "/export <file.csv>"},
	"/search":  {cmdSearch, 1, -1, "/search <process number>"},
	"/reset":   {cmdReset, 0, 0, "/reset"},
}

const helpText = `Commands:
/mode <general|cdc|cf88>   switch chat mode (corpus modes load their corpus)
/load <file> [file...]     select PDF, text or JSON files
/process                   extract the text of the selected files
/docs                      list the selected documents
/analyze <n>               summary, insights and SWOT of document n
/show <n>                  show the analysis of document n
/compare <n|reply> <file>  compare document n or the last reply with a file
/export <file.csv>         export the analyses as CSV
/search <process number>   look a process up in DataJud
/reset                     clear the conversation of the current mode

Esc clears the input, Ctrl+C quits.`

// parseCommand parses an input line starting with a slash
func parseCommand(input string) (command, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return command{}, fmt.Errorf("empty command")
	}

	name := strings.ToLower(fields[0])
	spec, ok := commandSpecs[name]
	if !ok {
		return command{}, fmt.Errorf("unknown command %s, type /help", fields[0])
	}

	args := fields[1:]
	if len(args) < spec.minArgs || (spec.maxArgs >= 0 && len(args) > spec.maxArgs) {
		return command{}, fmt.Errorf("usage: %s", spec.usage)
	}
	return command{kind: spec.kind, args: args}, nil
}

// documentAt resolves a 1-based index as listed by /docs
func documentAt(docs []*document.Document, arg string) (*document.Document, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("%q is not a document number", arg)
	}
	if n < 1 || n > len(docs) {
		return nil, fmt.Errorf("no document %d, see /docs", n)
	}
	return docs[n-1], nil
}
