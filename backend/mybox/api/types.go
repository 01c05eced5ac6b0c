// Package api has type definitions for the MYBOX web API
//
// Worked out from the requests the MYBOX web app makes.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

// Result codes which need special handling
const (
	CodeOK               = 0
	CodeDuplicatedFolder = 1008 // "Duplicated Folder Exist"
	CodeNoLinkProperty   = 3111 // no property or no permission
	CodeLinkExists       = 4204 // sharing link already exists
)

// Resource types
const (
	TypeFolder = "folder"
	TypeFile   = "file"
)

// Code is a result code. The API sends it as a number or a string.
type Code int

// UnmarshalJSON turns JSON into a Code
func (c *Code) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("bad result code %s", data)
	}
	*c = Code(n)
	return nil
}

// Time is a timestamp sent as milliseconds since the epoch
type Time time.Time

// UnmarshalJSON turns JSON into a Time
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		*t = Time{}
		return nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("bad timestamp %s", data)
	}
	*t = Time(time.Unix(0, ms*int64(time.Millisecond)))
	return nil
}

// MarshalJSON turns a Time into JSON
func (t Time) MarshalJSON() ([]byte, error) {
	if time.Time(t).IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(time.Time(t).UnixNano()/int64(time.Millisecond), 10)), nil
}

// Error is returned from MYBOX when things go wrong
//
// If Code is 0 then everything is OK
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Error returns a string for the error and satisfies the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("mybox error: %s (%d)", e.Message, e.Code)
}

// Update returns err directly if it was != nil, otherwise it returns
// an Error or nil if no error was detected
func (e *Error) Update(err error) error {
	if err != nil {
		return err
	}
	if e.Code == CodeOK {
		return nil
	}
	return e
}

// Check Error satisfies the error interface
var _ error = (*Error)(nil)

// Response is the envelope every API call replies with
type Response struct {
	Error
	Result json.RawMessage `json:"result"`
}

// Resource describes a file or folder as returned by the API
type Resource struct {
	ResourceKey      string `json:"resourceKey"`
	ResourceNo       int64  `json:"resourceNo"`
	ResourcePath     string `json:"resourcePath"`
	ResourceName     string `json:"resourceName"`
	OriginalPath     string `json:"originalPath"`
	ResourceType     string `json:"resourceType"`
	FileType         string `json:"fileType"`
	ResourceSize     int64  `json:"resourceSize"`
	ParentKey        string `json:"parentKey"`
	CreateDate       Time   `json:"createDate"`
	UpdateDate       Time   `json:"updateDate"`
	AccessDate       Time   `json:"accessDate"`
	DeleteDate       Time   `json:"deleteDate"`
	UpdateUser       string `json:"updateUser"`
	ChildFolderCount int    `json:"childFolderCount"`
	Protected        bool   `json:"protected"`
	IsProtected      bool   `json:"isProtected"`
}

// Item is the normalized form of a Resource
type Item struct {
	ResourceKey  string
	ResourceNo   int64
	Path         string
	Name         string
	Type         string // TypeFolder or TypeFile
	Size         int64
	ParentKey    string
	CreateDate   time.Time
	UpdateDate   time.Time
	AccessDate   time.Time
	DeleteDate   time.Time
	ChildFolders int
	Protected    bool
}

// IsDir returns true if the item is a folder
func (i *Item) IsDir() bool {
	return i.Type == TypeFolder
}

// Item normalizes the resource
func (r *Resource) Item() *Item {
	p := r.ResourcePath
	if p == "" {
		p = r.OriginalPath
	}
	name := r.ResourceName
	if name == "" && p != "" {
		name = path.Base(strings.TrimSuffix(p, "/"))
		if name == "." || name == "/" {
			name = ""
		}
	}
	typ := TypeFile
	if r.ResourceType == TypeFolder || r.FileType == TypeFolder || strings.HasSuffix(p, "/") {
		typ = TypeFolder
	}
	return &Item{
		ResourceKey:  r.ResourceKey,
		ResourceNo:   r.ResourceNo,
		Path:         p,
		Name:         name,
		Type:         typ,
		Size:         r.ResourceSize,
		ParentKey:    r.ParentKey,
		CreateDate:   time.Time(r.CreateDate),
		UpdateDate:   time.Time(r.UpdateDate),
		AccessDate:   time.Time(r.AccessDate),
		DeleteDate:   time.Time(r.DeleteDate),
		ChildFolders: r.ChildFolderCount,
		Protected:    r.Protected || r.IsProtected,
	}
}

// List is the result of the list, search, recent and waste calls
type List struct {
	TotalCount int        `json:"totalCount"`
	List       []Resource `json:"list"`
}

// Items normalizes the resources in the list
func (l *List) Items() []*Item {
	items := make([]*Item, 0, len(l.List))
	for i := range l.List {
		items = append(items, l.List[i].Item())
	}
	return items
}

// Quota is the result of quota/get
type Quota struct {
	TotalQuota  int64 `json:"totalQuota"`
	UsedQuota   int64 `json:"usedQuota"`
	UnusedQuota int64 `json:"unusedQuota"`
	FileMaxSize int64 `json:"fileMaxSize"`
	Waste       struct {
		Cycle int   `json:"cycle"`
		Size  int64 `json:"size"`
	} `json:"waste"`
}

// UserInfo is the result of user/get
type UserInfo struct {
	UserID   string `json:"userId"`
	UserIdx  int64  `json:"userIdx"`
	Nickname string `json:"nickname"`
}

// Link is a sharing link as returned by link/create
type Link struct {
	ShortURL     string `json:"shortUrl"`
	ResourceName string `json:"resourceName"`
	ResourcePath string `json:"resourcePath"`
	ResourceType string `json:"resourceType"`
	ResourceNo   int64  `json:"resourceNo"`
	CreateDate   Time   `json:"createDate"`
	ExpireDate   Time   `json:"expireDate"`
}

// UploadResult is the result of upload.api
type UploadResult struct {
	ResourceKey string `json:"resourceKey"`
	VersionNo   string `json:"versionNo"`
	Virus       string `json:"virus"`
}
