package finder

import (
	"context"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// ComponentFinder expands command line arguments into component files
type ComponentFinder interface {
	FindComponents(ctx context.Context, args []string) ([]string, error)
}

// Finder resolves files, directories and glob patterns against an afero
// filesystem. Directories are searched with Include; every result is
// filtered through Exclude.
type Finder struct {
	Fs      afero.Fs
	Include []string
	Exclude []string
}

var _ ComponentFinder = (*Finder)(nil)

func New(fsys afero.Fs, include, exclude []string) *Finder {
	return &Finder{Fs: fsys, Include: include, Exclude: exclude}
}

// FindComponents returns a sorted, de-duplicated list of paths. No args
// means the current directory. Plain file arguments are returned even when
// they do not exist, so that the caller reports them when reading.
func (f *Finder) FindComponents(ctx context.Context, args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	iofs := afero.NewIOFS(f.Fs)

	var files []string
	for _, arg := range args {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("finding components: %w", err)
		}

		arg = Clean(arg)

		if HasMeta(arg) {
			matches, err := doublestar.Glob(iofs, arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, errors.Errorf("matching %s: %w", arg, err)
			}
			files = append(files, matches...)
			continue
		}

		info, err := f.Fs.Stat(arg)
		if err != nil || !info.IsDir() {
			files = append(files, arg)
			continue
		}

		for _, pattern := range f.Include {
			matches, err := doublestar.Glob(sub(iofs, arg), pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, errors.Errorf("matching %s in %s: %w", pattern, arg, err)
			}
			for _, m := range matches {
				files = append(files, path.Join(arg, m))
			}
		}
	}

	files = slices.DeleteFunc(files, f.Excluded)
	slices.Sort(files)
	files = slices.Compact(files)

	zerolog.Ctx(ctx).Debug().Strs("args", args).Int("found", len(files)).Msg("found components")

	return files, nil
}

// Excluded reports whether p matches any exclude pattern.
func (f *Finder) Excluded(p string) bool {
	for _, pattern := range f.Exclude {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

func sub(fsys fs.FS, dir string) fs.FS {
	if dir == "." {
		return fsys
	}
	s, err := fs.Sub(fsys, dir)
	if err != nil {
		return fsys
	}
	return s
}

// Clean turns a command line path into the slash separated, unrooted form
// io/fs expects.
func Clean(p string) string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimPrefix(p, "./")
}

// HasMeta reports whether p contains glob syntax.
func HasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}
