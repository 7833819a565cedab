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
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func TestBlob(t *testing.T) {
	ctx := context.Background()
	os.MkdirAll(filepath.Join("test", "data"), os.ModePerm)
	defer os.RemoveAll("test")

	src := filepath.Join(t.TempDir(), "tas_a.nc")
	if err := os.WriteFile(src, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("Upload", func(t *testing.T) {
		for _, name := range []string{"tas_a.nc", "pr_b.nc"} {
			if err := Upload(ctx, src, "file://test/data/"+name); err != nil {
				t.Fatal(err)
			}
		}
	})

	t.Run("List", func(t *testing.T) {
		have, err := List(ctx, "file://test/data")
		if err != nil {
			t.Fatal(err)
		}
		sort.Strings(have)
		want := []string{"pr_b.nc", "tas_a.nc"}
		if !reflect.DeepEqual(have, want) {
			t.Errorf("have %v, want %v", have, want)
		}
	})

	t.Run("Download", func(t *testing.T) {
		local, cleanup, err := Download(ctx, "file://test/data/tas_a.nc")
		if err != nil {
			t.Fatal(err)
		}
		defer cleanup()
		b, err := os.ReadFile(local)
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != "hello" {
			t.Errorf("have %q, want %q", b, "hello")
		}
	})

	t.Run("Uploader", func(t *testing.T) {
		var u Uploader
		local, err := u.Local("file://test/data/out.nc")
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(local, []byte("out"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := u.Upload(ctx); err != nil {
			t.Fatal(err)
		}
		b, err := os.ReadFile(filepath.Join("test", "data", "out.nc"))
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != "out" {
			t.Errorf("have %q, want %q", b, "out")
		}
	})

	t.Run("Discard", func(t *testing.T) {
		var u Uploader
		local, err := u.Local("file://test/data/discarded.nc")
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(local, []byte("out"), 0644); err != nil {
			t.Fatal(err)
		}
		u.Discard()
		if _, err := os.Stat(filepath.Dir(local)); !os.IsNotExist(err) {
			t.Errorf("staging directory %s was not removed", filepath.Dir(local))
		}
		if err := u.Upload(ctx); err != nil {
			t.Fatal(err)
		}
		if _, err := os.Stat(filepath.Join("test", "data", "discarded.nc")); !os.IsNotExist(err) {
			t.Error("discarded file was uploaded")
		}
	})
}

func TestListLocal(t *testing.T) {
	dir := t.TempDir()
	os.Mkdir(filepath.Join(dir, "subdir"), os.ModePerm)
	os.WriteFile(filepath.Join(dir, "b.nc"), nil, 0644)
	os.WriteFile(filepath.Join(dir, "a.nc"), nil, 0644)
	have, err := List(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(have)
	want := []string{"a.nc", "b.nc"}
	if !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}
}

func TestJoin(t *testing.T) {
	for _, test := range []struct{ dir, name, want string }{
		{"gs://bucket/dir/", "f.nc", "gs://bucket/dir/f.nc"},
		{"s3://bucket", "f.nc", "s3://bucket/f.nc"},
		{"/work DataFiles/tas/ssp245/", "f.nc", "/work DataFiles/tas/ssp245/f.nc"},
	} {
		if have := Join(test.dir, test.name); have != test.want {
			t.Errorf("Join(%q, %q): have %q, want %q", test.dir, test.name, have, test.want)
		}
	}
}
