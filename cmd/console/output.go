package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"
)

// render 表格对齐输出,--json时输出data本身
func (a *app) render(data interface{}, header string, rows func(w *tabwriter.Writer)) error {
	if a.asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	return w.Flush()
}

func dateOf(t time.Time) string {
	return t.Format("2006-01-02")
}

// stringFlag 只有显式指定的flag才进入Patch
func stringFlag(changed bool, v string) *string {
	if !changed {
		return nil
	}
	return &v
}
