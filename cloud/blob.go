/*
Copyright © 2026 the climatology authors.
This file is part of climatology.

climatology is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

climatology is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with climatology.  If not, see <http://www.gnu.org/licenses/>.
*/

package cloud

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
	"gocloud.dev/blob"
)

// uploadRetries is the number of times a failed blob write is retried.
const uploadRetries = 3

// Join joins a directory and a file name. Blob directories are joined
// with a forward slash and local directories with filepath.Join.
func Join(dir, name string) string {
	if IsBlob(dir) {
		return strings.TrimSuffix(dir, "/") + "/" + name
	}
	return filepath.Join(dir, name)
}

// List returns the names of the files directly within dir, which can
// either be a local directory or a blob storage location.
func List(ctx context.Context, dir string) ([]string, error) {
	if !IsBlob(dir) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, e := range entries {
			if e.Type().IsRegular() {
				names = append(names, e.Name())
			}
		}
		return names, nil
	}
	bucket, prefix, err := splitBlob(ctx, dir)
	if err != nil {
		return nil, err
	}
	defer bucket.Close()
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	iter := bucket.List(&blob.ListOptions{
		Prefix:    prefix,
		Delimiter: "/",
	})
	var names []string
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cloud: listing blobs in %s: %v", dir, err)
		}
		if obj.IsDir {
			continue
		}
		names = append(names, strings.TrimPrefix(obj.Key, prefix))
	}
	return names, nil
}

// Download copies the file at path to a temporary directory if path is
// a blob and returns the location of the copy. Local paths are returned
// unchanged. For shapefiles, the associated files are downloaded as well.
// cleanup removes any temporary files and is never nil.
func Download(ctx context.Context, path string) (local string, cleanup func(), err error) {
	cleanup = func() {}
	if !IsBlob(path) {
		return path, cleanup, nil
	}
	bucket, key, err := splitBlob(ctx, path)
	if err != nil {
		return "", cleanup, err
	}
	defer bucket.Close()

	dir, err := os.MkdirTemp("", "climatology")
	if err != nil {
		return "", cleanup, fmt.Errorf("cloud: creating temporary download directory: %v", err)
	}
	cleanup = func() { os.RemoveAll(dir) }
	for _, k := range expandShp(key) {
		if err := readBlob(ctx, bucket, k, filepath.Join(dir, filepath.Base(k))); err != nil {
			cleanup()
			return "", func() {}, err
		}
	}
	return filepath.Join(dir, filepath.Base(key)), cleanup, nil
}

// readBlob copies the given blob from the given bucket to a local file.
func readBlob(ctx context.Context, bucket *blob.Bucket, key, dst string) error {
	r, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		return fmt.Errorf("cloud: reading blob key %s: %v", key, err)
	}
	defer r.Close()
	w, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("cloud: creating file for download: %v", err)
	}
	if _, err = io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("cloud: reading blob key %s: %v", key, err)
	}
	return w.Close()
}

// Upload copies the local file src to the blob location dst.
func Upload(ctx context.Context, src, dst string) error {
	r, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("cloud: opening file '%s' for upload: %v", src, err)
	}
	defer r.Close()
	bucket, key, err := splitBlob(ctx, dst)
	if err != nil {
		return fmt.Errorf("cloud: opening bucket to upload file '%s': %v", dst, err)
	}
	defer bucket.Close()
	return backoff.RetryNotify(
		func() error {
			if _, err := r.Seek(0, io.SeekStart); err != nil {
				return err
			}
			return writeBlob(ctx, bucket, key, r)
		},
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uploadRetries),
		func(err error, d time.Duration) {
			logrus.Warnf("%v: retrying in %v", err, d)
		},
	)
}

// writeBlob writes the contents of r to the given bucket.
func writeBlob(ctx context.Context, bucket *blob.Bucket, key string, r io.Reader) error {
	w, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{})
	if err != nil {
		return fmt.Errorf("cloud: creating writer for blob %s: %v", key, err)
	}
	if _, err = io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("cloud: copying blob %s: %v", key, err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("cloud: writing blob %s: %v", key, err)
	}
	return nil
}

// Uploader stages files that are destined for blob storage in a
// temporary directory until Upload is called.
type Uploader struct {
	// files is a set of file path pairs. The first of each pair
	// is a local file path and the second is a blob storage
	// path where it should be uploaded to.
	files [][2]string
	dir   string
}

// Local returns the path that a file destined for path should be written
// to. Local paths are returned unchanged; for blob paths a temporary
// location is returned and the file will be copied to path when Upload is
// called.
func (u *Uploader) Local(path string) (string, error) {
	if !IsBlob(path) {
		return path, nil
	}
	if u.dir == "" {
		var err error
		if u.dir, err = os.MkdirTemp("", "climatology"); err != nil {
			return "", fmt.Errorf("cloud: creating temporary upload directory: %v", err)
		}
	}
	files := expandShp(path)
	for _, f := range files {
		u.files = append(u.files, [2]string{
			filepath.Join(u.dir, filepath.Base(f)),
			f,
		})
	}
	return filepath.Join(u.dir, filepath.Base(files[0])), nil
}

// Upload copies all staged files to blob storage and removes the
// temporary directory.
func (u *Uploader) Upload(ctx context.Context) error {
	if u.dir == "" {
		return nil
	}
	defer u.Discard()
	for _, f := range u.files {
		if _, err := os.Stat(f[0]); os.IsNotExist(err) {
			continue
		}
		if err := Upload(ctx, f[0], f[1]); err != nil {
			return err
		}
	}
	return nil
}

// Discard removes any staged files without uploading them.
func (u *Uploader) Discard() {
	if u.dir != "" {
		os.RemoveAll(u.dir)
	}
	u.files = nil
	u.dir = ""
}

// expandShp returns the given file + associated [.dbf, .shx, .prj]
// files if the given file has the .shp extension, and returns the given
// file otherwise
func expandShp(filename string) []string {
	o := []string{filename}
	ext := filepath.Ext(filename)
	if ext != ".shp" {
		return o
	}
	for _, newExt := range []string{".dbf", ".shx", ".prj"} {
		o = append(o, filename[0:len(filename)-4]+newExt)
	}
	return o
}
