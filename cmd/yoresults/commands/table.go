package commands

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

var tableOutput io.Writer = os.Stdout

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(tableOutput)
	return t
}
