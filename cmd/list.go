package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/myboxcli/mybox/backend/mybox"
	"github.com/myboxcli/mybox/backend/mybox/api"
)

// NewClient makes a logged in client from the config
func NewClient(ctx context.Context) (*mybox.Client, error) {
	s, err := NewSession()
	if err != nil {
		return nil, err
	}
	return s.Client(ctx)
}

// ListFormat controls PrintItems
type ListFormat struct {
	Human bool // print sizes like 1.2 MiB
	Keys  bool // print the resource keys
}

// PrintItems writes one line per item to w
//
//	d        -1 2023-07-04 09:44:23 /photos/
//	-      1234 2023-07-04 09:44:23 /photos/cat.jpg
func PrintItems(w io.Writer, items []*api.Item, f ListFormat) error {
	for _, item := range items {
		kind := "-"
		size := fmt.Sprintf("%9d", item.Size)
		if item.IsDir() {
			kind = "d"
			size = fmt.Sprintf("%9d", -1)
		} else if f.Human {
			size = fmt.Sprintf("%9s", humanize.IBytes(uint64(item.Size)))
		}
		date := item.UpdateDate
		if date.IsZero() {
			date = item.CreateDate
		}
		name := item.Path
		if name == "" {
			name = item.Name
		}
		var err error
		if f.Keys {
			_, err = fmt.Fprintf(w, "%s %s %s %s %s\n", kind, size, date.Local().Format("2006-01-02 15:04:05"), item.ResourceKey, name)
		} else {
			_, err = fmt.Fprintf(w, "%s %s %s %s\n", kind, size, date.Local().Format("2006-01-02 15:04:05"), name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date, returning the zero time for ""
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}
