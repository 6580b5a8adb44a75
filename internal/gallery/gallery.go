package gallery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gallery-gen/internal/mediatypes"
)

// Node is a single entry in the gallery tree, either a folder with
// children or a media leaf (image or video).
type Node struct {
	ID        string
	Name      string
	Type      mediatypes.FileType
	Children  []*Node
	Src       string
	Thumbnail string
	Date      string
}

// folderJSON and mediaJSON pin the serialized key order expected by the
// gallery front end.
type folderJSON struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Type     mediatypes.FileType `json:"type"`
	Children []*Node             `json:"children"`
}

type mediaJSON struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Type      mediatypes.FileType `json:"type"`
	Src       string              `json:"src"`
	Thumbnail string              `json:"thumbnail"`
	Date      string              `json:"date"`
}

// MarshalJSON serializes the folder or media shape depending on the
// node type. Folders never carry src/thumbnail/date and media nodes
// never carry children.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n.Type == mediatypes.FileTypeFolder {
		children := n.Children
		if children == nil {
			children = []*Node{}
		}
		return json.Marshal(folderJSON{
			ID:       n.ID,
			Name:     n.Name,
			Type:     n.Type,
			Children: children,
		})
	}
	return json.Marshal(mediaJSON{
		ID:        n.ID,
		Name:      n.Name,
		Type:      n.Type,
		Src:       n.Src,
		Thumbnail: n.Thumbnail,
		Date:      n.Date,
	})
}

// Build scans path recursively and returns the folder node describing
// its contents plus any warnings collected along the way. Per-directory
// failures degrade to an empty children list and never abort the scan.
func Build(path string) (*Node, []string) {
	var warnings []string
	node := scan(path, &warnings)
	return node, warnings
}

// BuildRoot scans path and wraps the result in the fixed top-level
// folder the front end expects: id "root", name "Home". The scanned
// directory's own id and name are deliberately discarded; only its
// contents are surfaced.
func BuildRoot(path string) (*Node, []string) {
	node, warnings := Build(path)
	return &Node{
		ID:       "root",
		Name:     "Home",
		Type:     mediatypes.FileTypeFolder,
		Children: node.Children,
	}, warnings
}

func scan(path string, warnings *[]string) *Node {
	node := &Node{
		ID:       FolderID(path),
		Name:     folderName(path),
		Type:     mediatypes.FileTypeFolder,
		Children: []*Node{},
	}

	if _, err := os.Stat(path); err != nil {
		*warnings = append(*warnings, fmt.Sprintf("path %q not found", path))
		return node
	}

	// os.ReadDir returns entries sorted by filename (byte order), which
	// is the ordering contract for children.
	entries, err := os.ReadDir(path)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("cannot list %q: %v", path, err))
		return node
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		itemPath := filepath.Join(path, name)

		// Stat follows symlinks; entries that are neither directories
		// nor regular files (broken symlinks, sockets) are skipped.
		info, err := os.Stat(itemPath)
		if err != nil {
			continue
		}

		switch {
		case info.IsDir():
			node.Children = append(node.Children, scan(itemPath, warnings))
		case info.Mode().IsRegular():
			ext := strings.ToLower(filepath.Ext(name))
			fileType := mediatypes.GetFileType(ext)
			if fileType == mediatypes.FileTypeOther {
				continue
			}
			webPath := EncodePath(itemPath)
			node.Children = append(node.Children, &Node{
				ID:        MediaID(name),
				Name:      name,
				Type:      fileType,
				Src:       webPath,
				Thumbnail: webPath,
				Date:      "",
			})
		}
	}

	return node
}

var (
	folderIDReplacer = strings.NewReplacer(string(filepath.Separator), "_", "/", "_", " ", "_", ".", "")
	mediaIDReplacer  = strings.NewReplacer(".", "_", " ", "_")
)

// FolderID derives a DOM-safe id from a folder's full path relative to
// the scan root: separators and spaces become underscores, dots are
// removed, and the result is lowercased.
//
// Ids are not deduplicated; two paths that normalize to the same id
// collide. Folder and media ids intentionally differ in derivation
// (path-based lowercased vs name-based case-preserved).
func FolderID(path string) string {
	return strings.ToLower(folderIDReplacer.Replace(path))
}

// MediaID derives a DOM-safe id from a media file's own name: dots and
// spaces become underscores, case is preserved.
func MediaID(name string) string {
	return mediaIDReplacer.Replace(name)
}

func folderName(path string) string {
	name := filepath.Base(path)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "Home"
	}
	return name
}

const upperhex = "0123456789ABCDEF"

// EncodePath converts a filesystem path to a web-safe URL path:
// separators are normalized to forward slashes, then every byte outside
// the RFC 3986 unreserved set is percent-encoded, with "/" left
// literal so directory structure survives.
func EncodePath(path string) string {
	normalized := filepath.ToSlash(path)

	var b strings.Builder
	b.Grow(len(normalized))
	for i := 0; i < len(normalized); i++ {
		c := normalized[i]
		if pathByteSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func pathByteSafe(c byte) bool {
	if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' {
		return true
	}
	switch c {
	case '-', '_', '.', '~', '/':
		return true
	}
	return false
}

// Stats summarizes a built tree.
type Stats struct {
	Folders int `json:"folders"`
	Images  int `json:"images"`
	Videos  int `json:"videos"`
}

// Count walks the tree rooted at n and tallies folder, image, and
// video nodes. The root folder itself is not counted.
func (n *Node) Count() Stats {
	var stats Stats
	for _, child := range n.Children {
		switch child.Type {
		case mediatypes.FileTypeFolder:
			stats.Folders++
			sub := child.Count()
			stats.Folders += sub.Folders
			stats.Images += sub.Images
			stats.Videos += sub.Videos
		case mediatypes.FileTypeImage:
			stats.Images++
		case mediatypes.FileTypeVideo:
			stats.Videos++
		}
	}
	return stats
}
