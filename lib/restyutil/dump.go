package restyutil

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type DumpOutput interface {
	Write(id string, contents string) error
}

// FilesystemOutput writes every exchange into its own file under a directory.
type FilesystemOutput struct {
	directory string
}

func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) error {
	return os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
}

// DumpExchanges writes the full request and response of every completed
// exchange made by client into output, a nil output is a no-op.
func DumpExchanges(client *resty.Client, output DumpOutput) {
	if output == nil {
		return
	}

	var counter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := dumpId(atomic.AddUint64(&counter, 1), res.Request.Method, res.Request.URL)
		err := output.Write(id, formatHttpMessage(res))
		if err != nil {
			slog.Warn("failed to write http dump", "id", id, "err", err)
		}
		return nil
	})
}

// dumpId is "<n>-<method>-<last path segment>.txt", the segment is reduced
// to characters that are safe in a file name
func dumpId(n uint64, method, link string) string {
	name := "index"
	parsed, err := url.Parse(link)
	if err == nil {
		segment := filepath.Base(strings.TrimSuffix(parsed.Path, "/"))
		if segment != "." && segment != "/" && segment != "" {
			name = segment
		}
	}
	name = strings.Map(func(r rune) rune {
		if r == '-' || r == '_' || r == '.' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, name)
	return fmt.Sprintf("%03d-%s-%s.txt", n, strings.ToLower(method), name)
}
