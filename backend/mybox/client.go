package mybox

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/myboxcli/mybox/backend/mybox/api"
	"github.com/myboxcli/mybox/backend/mybox/credential"
	"github.com/myboxcli/mybox/fs"
	"github.com/myboxcli/mybox/fs/fshttp"
	"github.com/myboxcli/mybox/lib/rest"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

// timeLayout is the layout of dates sent to the API
const timeLayout = "2006-01-02T15:04:05-07:00"

// kst is the zone the web app sends dates in
var kst = time.FixedZone("KST", 9*60*60)

// Globals
var (
	// ErrorNotFound is returned when a path doesn't exist
	ErrorNotFound = errors.New("not found")
)

// errorHandler parses a non 2xx error response into an error
func errorHandler(resp *http.Response) error {
	errResponse := new(api.Error)
	err := rest.DecodeJSON(resp, &errResponse)
	if err != nil {
		fs.Debugf(nil, "Couldn't decode error response: %v", err)
	}
	if errResponse.Message == "" {
		errResponse.Message = resp.Status
	}
	if errResponse.Code == 0 {
		errResponse.Code = api.Code(resp.StatusCode)
	}
	return errResponse
}

// Client talks to the MYBOX API
type Client struct {
	opt       Options
	store     *credential.Store
	cli       *http.Client
	srv       *rest.Client // api.mybox.naver.com
	files     *rest.Client // files.mybox.naver.com
	pathCache *cache.Cache // path -> resource key
}

// NewClient makes a Client using the credentials in store.
//
// The credentials are read on every request so a login after the
// Client is made is picked up.
func NewClient(opt *Options, store *credential.Store) *Client {
	clientConfig := fs.Config.Copy()
	if opt.UserAgent != "" {
		clientConfig.UserAgent = opt.UserAgent
	}
	cli := fshttp.NewClient(clientConfig)
	cli.Jar = nil
	if t, ok := cli.Transport.(*fshttp.Transport); ok {
		t.SetRequestFilter(func(req *http.Request) {
			for _, c := range store.Cookies() {
				req.AddCookie(c)
			}
		})
	}
	c := &Client{
		opt:       *opt,
		store:     store,
		cli:       cli,
		pathCache: cache.New(pathCacheExpiry, 2*pathCacheExpiry),
	}
	c.srv = c.newRest(opt.APIURL)
	c.files = c.newRest(opt.FilesURL)
	return c
}

// newRest makes a rest client with the headers the web app sends
func (c *Client) newRest(root string) *rest.Client {
	return rest.NewClient(c.cli).
		SetRoot(root).
		SetErrorHandler(errorHandler).
		SetHeader("Accept", "application/json, text/plain, */*").
		SetHeader("Accept-Language", "ko,en;q=0.9,en-US;q=0.8").
		SetHeader("Origin", "https://mybox.naver.com").
		SetHeader("Referer", "https://mybox.naver.com/")
}

// call makes the API call decoding the envelope. If result is not nil
// the result member is decoded into it.
func (c *Client) call(ctx context.Context, srv *rest.Client, opts *rest.Opts, form url.Values, result interface{}) (*api.Response, error) {
	var envelope api.Response
	var err error
	if form != nil {
		_, err = srv.CallForm(ctx, opts, form, &envelope)
	} else {
		_, err = srv.CallJSON(ctx, opts, nil, &envelope)
	}
	if err != nil {
		return nil, err
	}
	if err = envelope.Error.Update(nil); err != nil {
		return &envelope, err
	}
	if result != nil && len(envelope.Result) > 0 && string(envelope.Result) != "null" {
		if err = json.Unmarshal(envelope.Result, result); err != nil {
			return &envelope, errors.Wrapf(err, "failed to decode result of %s", opts.Path)
		}
	}
	return &envelope, nil
}

// ListOptions control List
type ListOptions struct {
	FileOption     string // "all" or "folder", or empty
	ResourceOption string // "photo", or empty
	Sort           string // "create" or "name"
	Order          string // "desc" or "asc"
	PagingRow      int
}

// pager calls fetch for each page until everything has been read
func pager(pagingRow int, fetch func(startNum, pagingRow int) (*api.List, error)) (items []*api.Item, err error) {
	if pagingRow <= 0 {
		pagingRow = defaultPagingRow
	}
	for startNum := 0; ; startNum += pagingRow {
		page, err := fetch(startNum, pagingRow)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items()...)
		if len(page.List) < pagingRow || (page.TotalCount > 0 && len(items) >= page.TotalCount) {
			return items, nil
		}
	}
}

// List returns the items in the folder with parentKey
func (c *Client) List(ctx context.Context, parentKey string, lo ListOptions) ([]*api.Item, error) {
	if parentKey == "" {
		parentKey = rootKey
	}
	if lo.FileOption != "" && lo.ResourceOption != "" {
		fs.Logf(nil, "Only one of fileOption and resourceOption is used by the server")
	}
	return pager(lo.PagingRow, func(startNum, pagingRow int) (*api.List, error) {
		form := url.Values{
			"NDriveSvcType": {svcType},
			"resourceKey":   {parentKey},
			"startNum":      {strconv.Itoa(startNum)},
			"pagingRow":     {strconv.Itoa(pagingRow)},
			"optFields":     {"parentKey", "nickname"},
			"sort":          {orDefault(lo.Sort, "create")},
			"order":         {orDefault(lo.Order, "desc")},
		}
		if lo.FileOption != "" {
			form.Set("fileOption", lo.FileOption)
		}
		if lo.ResourceOption != "" {
			form.Set("resourceOption", lo.ResourceOption)
		}
		var page api.List
		_, err := c.call(ctx, c.srv, &rest.Opts{Method: "POST", Path: "/service/file/list"}, form, &page)
		if err != nil {
			return nil, errors.Wrap(err, "list failed")
		}
		return &page, nil
	})
}

// Recent returns the items accessed in the last two weeks
func (c *Client) Recent(ctx context.Context) ([]*api.Item, error) {
	now := time.Now().UTC()
	const layout = "2006-01-02T15:04:05.000Z"
	return pager(defaultPagingRow, func(startNum, pagingRow int) (*api.List, error) {
		form := url.Values{
			"NDriveSvcType":  {svcType},
			"startNum":       {strconv.Itoa(startNum)},
			"pagingRow":      {strconv.Itoa(pagingRow)},
			"sort":           {"access"},
			"order":          {"desc"},
			"recentType":     {"access"},
			"startDate":      {now.Add(-14 * 24 * time.Hour).Format(layout)},
			"endDate":        {now.Format(layout)},
			"fileOption":     {"all"},
			"resourceOption": {"file"},
		}
		var page api.List
		_, err := c.call(ctx, c.srv, &rest.Opts{Method: "POST", Path: "/service/file/search/recent"}, form, &page)
		if err != nil {
			return nil, errors.Wrap(err, "recent list failed")
		}
		return &page, nil
	})
}

// SearchOptions control Search
type SearchOptions struct {
	FileOption  string // all, image, doc, video, audio or zip
	ResourceKey string // folder to search in, root if empty
	MinSize     int64
	MaxSize     int64
	StartDate   time.Time // uploaded on or after this day
	EndDate     time.Time // uploaded on or before this day
}

// Search finds items matching keyword
func (c *Client) Search(ctx context.Context, keyword string, so SearchOptions) ([]*api.Item, error) {
	return pager(defaultPagingRow, func(startNum, pagingRow int) (*api.List, error) {
		form := url.Values{
			"NDriveSvcType": {svcType},
			"startNum":      {strconv.Itoa(startNum)},
			"pagingRow":     {strconv.Itoa(pagingRow)},
			"sort":          {"create"},
			"order":         {"desc"},
			"keyword":       {keyword},
			"fileOption":    {orDefault(so.FileOption, "all")},
			"resourceKey":   {orDefault(so.ResourceKey, rootKey)},
			"searchArea":    {"all"},
		}
		if so.MinSize > 0 {
			form.Set("minSize", strconv.FormatInt(so.MinSize, 10))
		}
		if so.MaxSize > 0 {
			form.Set("maxSize", strconv.FormatInt(so.MaxSize, 10))
		}
		if !so.StartDate.IsZero() {
			form.Set("startDate", so.StartDate.Format("2006-01-02")+"T00:00:00+09:00")
		}
		if !so.EndDate.IsZero() {
			form.Set("endDate", so.EndDate.Format("2006-01-02")+"T23:59:59+09:00")
		}
		var page api.List
		_, err := c.call(ctx, c.srv, &rest.Opts{Method: "POST", Path: "/service/file/search"}, form, &page)
		if err != nil {
			return nil, errors.Wrap(err, "search failed")
		}
		return &page, nil
	})
}

// Trash returns the items in the waste basket
func (c *Client) Trash(ctx context.Context) ([]*api.Item, error) {
	return pager(defaultPagingRow, func(startNum, pagingRow int) (*api.List, error) {
		opts := rest.Opts{
			Method: "GET",
			Path:   "/service/waste/list",
			Parameters: url.Values{
				"startNum":  {strconv.Itoa(startNum)},
				"pagingRow": {strconv.Itoa(pagingRow)},
				"sort":      {"delete"},
				"order":     {"desc"},
			},
		}
		var page api.List
		_, err := c.call(ctx, c.srv, &opts, nil, &page)
		if err != nil {
			return nil, errors.Wrap(err, "trash list failed")
		}
		return &page, nil
	})
}

// Get returns the metadata of the item with key
func (c *Client) Get(ctx context.Context, key string) (*api.Item, error) {
	opts := rest.Opts{
		Method:     "GET",
		Path:       "/service/file/get",
		Parameters: url.Values{"resourceKey": {key}},
	}
	var r api.Resource
	_, err := c.call(ctx, c.srv, &opts, nil, &r)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't read metadata of %q", key)
	}
	return r.Item(), nil
}

// RootKey returns the resource key of the root folder
func (c *Client) RootKey(ctx context.Context) (string, error) {
	if key, found := c.pathCache.Get("/"); found {
		return key.(string), nil
	}
	item, err := c.Get(ctx, rootKey)
	if err != nil {
		return "", err
	}
	c.pathCache.SetDefault("/", item.ResourceKey)
	return item.ResourceKey, nil
}

// cleanPath returns p as an absolute slash separated path
func cleanPath(p string) string {
	return path.Clean("/" + strings.Trim(p, "/"))
}

// findChild returns the child of parentKey called name
func (c *Client) findChild(ctx context.Context, parentKey, name string) (*api.Item, error) {
	items, err := c.List(ctx, parentKey, ListOptions{})
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Name == name {
			return item, nil
		}
	}
	return nil, ErrorNotFound
}

// ResolvePath returns the resource key of the item at p, such as
// "/photos/2023/cat.jpg"
func (c *Client) ResolvePath(ctx context.Context, p string) (string, error) {
	p = cleanPath(p)
	if key, found := c.pathCache.Get(p); found {
		return key.(string), nil
	}
	if p == "/" {
		return c.RootKey(ctx)
	}
	dir, leaf := path.Split(p)
	parentKey, err := c.ResolvePath(ctx, dir)
	if err != nil {
		return "", err
	}
	item, err := c.findChild(ctx, parentKey, leaf)
	if err == ErrorNotFound {
		return "", errors.Wrapf(ErrorNotFound, "%q", p)
	}
	if err != nil {
		return "", err
	}
	c.pathCache.SetDefault(p, item.ResourceKey)
	return item.ResourceKey, nil
}

// Mkdir makes a folder called name in parentKey returning its key.
//
// If the folder already exists its key is returned.
func (c *Client) Mkdir(ctx context.Context, parentKey, name string) (string, error) {
	if name == "" {
		name = "새 폴더"
	}
	opts := rest.Opts{
		Method: "POST",
		Path:   "/file/mkdir.api",
		Parameters: url.Values{
			"resourceKey":  {orDefault(parentKey, rootKey)},
			"resourceName": {name},
		},
	}
	var r api.Resource
	envelope, err := c.call(ctx, c.files, &opts, nil, &r)
	if envelope != nil && envelope.Code == api.CodeDuplicatedFolder {
		fs.Infof(nil, "Directory %q already exists", name)
		if len(envelope.Result) > 0 && json.Unmarshal(envelope.Result, &r) == nil && r.ResourceKey != "" {
			return r.ResourceKey, nil
		}
		item, findErr := c.findChild(ctx, parentKey, name)
		if findErr != nil {
			return "", errors.Wrapf(findErr, "couldn't find existing folder %q", name)
		}
		return item.ResourceKey, nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "mkdir %q failed", name)
	}
	fs.Infof(nil, "mkdir: %s", name)
	return r.ResourceKey, nil
}

// MkdirAll makes all the folders in p returning the key of the last
func (c *Client) MkdirAll(ctx context.Context, p string) (string, error) {
	p = cleanPath(p)
	key, err := c.ResolvePath(ctx, p)
	if err == nil {
		return key, nil
	}
	if errors.Cause(err) != ErrorNotFound {
		return "", err
	}
	dir, leaf := path.Split(p)
	parentKey, err := c.MkdirAll(ctx, dir)
	if err != nil {
		return "", err
	}
	key, err = c.Mkdir(ctx, parentKey, leaf)
	if err != nil {
		return "", err
	}
	c.pathCache.SetDefault(p, key)
	return key, nil
}

// Delete moves the item with key to the waste basket
func (c *Client) Delete(ctx context.Context, key string) error {
	form := url.Values{
		"resourceKey": {key},
		"deleteType":  {"normal"},
	}
	_, err := c.call(ctx, c.files, &rest.Opts{Method: "POST", Path: "/file/delete.api"}, form, nil)
	if err != nil {
		return errors.Wrapf(err, "delete %q failed", key)
	}
	c.pathCache.Flush()
	return nil
}

// Move moves the item with key into toParentKey naming it name
func (c *Client) Move(ctx context.Context, key, toParentKey, name string) error {
	opts := rest.Opts{
		Method: "GET",
		Path:   "/file/move.api",
		Parameters: url.Values{
			"resourceKey":  {key},
			"toParentKey":  {orDefault(toParentKey, rootKey)},
			"resourceName": {name},
		},
	}
	_, err := c.call(ctx, c.files, &opts, nil, nil)
	if err != nil {
		return errors.Wrapf(err, "move %q failed", key)
	}
	c.pathCache.Flush()
	return nil
}

// SetStar stars or unstars the item with key
func (c *Client) SetStar(ctx context.Context, key string, star bool) error {
	opts := rest.Opts{
		Method: "GET",
		Path:   "/service/file/update",
		Parameters: url.Values{
			"resourceKey": {key},
			"accessDate":  {time.Now().In(kst).Format(timeLayout)},
			"protected":   {strconv.FormatBool(star)},
		},
	}
	_, err := c.call(ctx, c.srv, &opts, nil, nil)
	if err != nil {
		return errors.Wrapf(err, "star %q failed", key)
	}
	return nil
}

// Download opens the content of the file with key. The caller must
// close it.
func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	opts := rest.Opts{
		Method: "GET",
		Path:   "/file/download.api",
		Parameters: url.Values{
			"NDriveSvcType": {svcType},
			"resourceKey":   {key},
		},
	}
	resp, err := c.files.Call(ctx, &opts)
	if err != nil {
		return nil, errors.Wrapf(err, "download %q failed", key)
	}
	return resp.Body, nil
}

// checkUpload asks the server whether an upload may start
func (c *Client) checkUpload(ctx context.Context) error {
	opts := rest.Opts{
		Method:       "POST",
		Path:         "/file/checkupload.api",
		NoResponse:   true,
		IgnoreStatus: true,
	}
	resp, err := c.files.Call(ctx, &opts)
	if err != nil {
		return err
	}
	fs.Debugf(nil, "uploadCheck API: %d", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("upload refused: %s", resp.Status)
	}
	return nil
}

// Upload uploads size bytes from in as name into parentKey returning
// the key of the new file
func (c *Client) Upload(ctx context.Context, parentKey, name string, in io.Reader, size int64) (string, error) {
	if err := c.checkUpload(ctx); err != nil {
		return "", errors.Wrap(err, "upload check failed")
	}
	// Sniff the content type without consuming the input
	buffered := bufio.NewReaderSize(in, 3072)
	head, _ := buffered.Peek(3072)
	mimeType := mimetype.Detect(head).String()
	fs.Debugf(nil, "Uploading %q (%d bytes, %s)", name, size, mimeType)

	length := size
	opts := rest.Opts{
		Method: "POST",
		Path:   "/file/upload.api",
		Body:   buffered,
		MultipartParams: url.Values{
			"toParentKey":      {orDefault(parentKey, rootKey)},
			"resourceName":     {name},
			"lastModified":     {time.Now().In(kst).Format(timeLayout)},
			"isRetResourceKey": {"true"},
			"linkAction":       {"false"},
			"writeMode":        {"none"},
			"filesize":         {strconv.FormatInt(size, 10)},
		},
		MultipartContentName: "Filedata",
		MultipartFileName:    name,
		MultipartFileType:    mimeType,
	}
	if size >= 0 {
		opts.ContentLength = &length
	}
	var result api.UploadResult
	_, err := c.call(ctx, c.files, &opts, nil, &result)
	if err != nil {
		return "", errors.Wrapf(err, "upload %q failed", name)
	}
	fs.Infof(nil, "File uploaded Name: %s", name)
	return result.ResourceKey, nil
}

// CreateLink makes a sharing link for the item with key. If one
// already exists it is returned.
func (c *Client) CreateLink(ctx context.Context, key string) (*api.Link, error) {
	opts := rest.Opts{
		Method:     "GET",
		Path:       "/service/link/create",
		Parameters: url.Values{"resourceKey": {key}},
	}
	var link api.Link
	envelope, err := c.call(ctx, c.srv, &opts, nil, &link)
	if envelope != nil && envelope.Code == api.CodeLinkExists {
		fs.Debugf(nil, "Link for %q already exists", key)
		return c.linkProperty(ctx, key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "create link for %q failed", key)
	}
	return &link, nil
}

// linkProperty reads the existing sharing link for key
func (c *Client) linkProperty(ctx context.Context, key string) (*api.Link, error) {
	opts := rest.Opts{
		Method: "GET",
		Path:   "/service/v2/share/link/" + url.PathEscape(key) + "/property",
	}
	var link api.Link
	_, err := c.call(ctx, c.srv, &opts, nil, &link)
	if err != nil {
		return nil, errors.Wrapf(err, "read link for %q failed", key)
	}
	return &link, nil
}

// DeleteLink removes the sharing link for the item with key
func (c *Client) DeleteLink(ctx context.Context, key string) error {
	opts := rest.Opts{
		Method:     "GET",
		Path:       "/service/link/delete",
		Parameters: url.Values{"resourceKey": {key}},
	}
	_, err := c.call(ctx, c.srv, &opts, nil, nil)
	if err != nil {
		return errors.Wrapf(err, "delete link for %q failed", key)
	}
	return nil
}

// Quota returns the storage usage
func (c *Client) Quota(ctx context.Context) (*api.Quota, error) {
	var quota api.Quota
	_, err := c.call(ctx, c.srv, &rest.Opts{Method: "GET", Path: "/service/quota/get"}, nil, &quota)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read quota")
	}
	return &quota, nil
}

// UserInfo returns the logged in user
func (c *Client) UserInfo(ctx context.Context) (*api.UserInfo, error) {
	var user api.UserInfo
	_, err := c.call(ctx, c.srv, &rest.Opts{Method: "GET", Path: "/service/user/get"}, nil, &user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read user info")
	}
	return &user, nil
}

// orDefault returns s or def if s is empty
func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
