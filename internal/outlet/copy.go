package outlet

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"torque-generator/internal/qname"
)

// CopyOutlet emits the content of a file unchanged as a byte result.
type CopyOutlet struct {
	BaseOutlet
	FS   billy.Filesystem
	Path string
}

// NewCopyOutlet creates an outlet called name copying path from fs.
func NewCopyOutlet(name qname.QualifiedName, fs billy.Filesystem, path string) *CopyOutlet {
	return &CopyOutlet{BaseOutlet: NewBaseOutlet(name), FS: fs, Path: path}
}

func (c *CopyOutlet) Execute(*State) (Result, error) {
	data, err := util.ReadFile(c.FS, c.Path)
	if err != nil {
		return Result{}, fmt.Errorf("outlet %s: reading %s: %w", c.Name(), c.Path, err)
	}

	if data == nil {
		data = []byte{}
	}

	return NewByteResult(data), nil
}
