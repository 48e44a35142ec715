package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mind-engage/mindengage-rewards/internal/course"
	"github.com/mind-engage/mindengage-rewards/internal/storage"
)

// DocumentName is the pristine catalog file.
const DocumentName = "courses.json"

// FileSource reads the catalog from a BlobStore (usually a directory).
type FileSource struct {
	blobs storage.BlobStore
	key   string
}

func NewFileSource(blobs storage.BlobStore) *FileSource {
	return &FileSource{blobs: blobs, key: DocumentName}
}

func (s *FileSource) Courses(_ context.Context) ([]course.Course, error) {
	rc, err := s.blobs.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("open content: %w", err)
	}
	defer rc.Close()
	return Decode(rc)
}

// HTTPSource fetches the catalog from a static URL.
type HTTPSource struct {
	url  string
	http *http.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{url: url, http: &http.Client{Timeout: timeout}}
}

func (s *HTTPSource) Courses(ctx context.Context) ([]course.Course, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	res, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return nil, fmt.Errorf("fetch content: %s", res.Status)
	}
	return Decode(res.Body)
}

// Decode parses a Course[] document. Unknown difficulty levels or question
// types fail the whole document.
func Decode(r io.Reader) ([]course.Course, error) {
	var cs []course.Course
	if err := json.NewDecoder(r).Decode(&cs); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	seen := map[int]bool{}
	for _, c := range cs {
		if seen[c.CourseID] {
			return nil, fmt.Errorf("decode content: duplicate course id %d", c.CourseID)
		}
		seen[c.CourseID] = true
	}
	return cs, nil
}
