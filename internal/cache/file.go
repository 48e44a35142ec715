package cache

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/mind-engage/mindengage-rewards/internal/course"
	"github.com/mind-engage/mindengage-rewards/internal/storage"
)

// File stores the document as <base>/courses.json through a BlobStore.
type File struct {
	blobs storage.BlobStore
	key   string
}

func NewFile(blobs storage.BlobStore) *File {
	return &File{blobs: blobs, key: DocumentKey + ".json"}
}

func (f *File) Get(_ context.Context) ([]course.Course, bool, error) {
	rc, err := f.blobs.Get(f.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, err
	}
	cs, err := decode(b)
	if err != nil {
		return nil, false, err
	}
	return cs, true, nil
}

func (f *File) Put(_ context.Context, cs []course.Course) error {
	b, err := encode(cs)
	if err != nil {
		return err
	}
	_, err = f.blobs.Put(f.key, bytes.NewReader(b))
	return err
}

func (f *File) Clear(_ context.Context) error {
	return f.blobs.Delete(f.key)
}
