package lezec

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
)

// pageDump numbers fetched pages in fetch order and writes each one to
// a directory. Used to troubleshoot the table heuristics against live
// markup.
type pageDump struct {
	dir     string
	counter uint64
}

// EnablePageDump makes the client write every fetched page, decoded to
// utf-8, into dir. The directory is cleared first.
func (c *Client) EnablePageDump(dir string) error {
	os.RemoveAll(dir)
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return err
	}
	c.dump = &pageDump{dir: dir}
	return nil
}

func (c *Client) dumpPage(label string, contents []byte) {
	if c.dump == nil {
		return
	}
	n := atomic.AddUint64(&c.dump.counter, 1)
	name := fmt.Sprintf("%03d-%s.html", n, label)
	err := os.WriteFile(filepath.Join(c.dump.dir, name), contents, 0600)
	if err != nil {
		slog.Warn("failed to write page dump", "file", name, "err", err)
	}
}
