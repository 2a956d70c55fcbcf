package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
)

// ErrBadPackage reports an input buffer that is not a readable
// presentation package. It is returned before any traversal starts.
var ErrBadPackage = errors.New("pptx: malformed presentation package")

const (
	presentationPart = "ppt/presentation.xml"
	presentationRels = "ppt/_rels/presentation.xml.rels"
)

// pkg holds the raw parts of an Office Open XML package. Entry order is
// preserved so the rewritten archive mirrors the input layout.
type pkg struct {
	names []string
	parts map[string][]byte
}

func openPackage(data []byte) (*pkg, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPackage, err)
	}

	p := &pkg{parts: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: cannot open part %s: %v", ErrBadPackage, f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: cannot read part %s: %v", ErrBadPackage, f.Name, err)
		}
		p.names = append(p.names, f.Name)
		p.parts[f.Name] = content
	}

	if _, ok := p.parts[presentationPart]; !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrBadPackage, presentationPart)
	}
	return p, nil
}

func (p *pkg) part(name string) ([]byte, bool) {
	data, ok := p.parts[name]
	return data, ok
}

func (p *pkg) setPart(name string, data []byte) {
	if _, ok := p.parts[name]; !ok {
		p.names = append(p.names, name)
	}
	p.parts[name] = data
}

// bytes serializes the package back into a zip archive.
func (p *pkg) bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range p.names {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create zip entry %s: %w", name, err)
		}
		if _, err := w.Write(p.parts[name]); err != nil {
			return nil, fmt.Errorf("failed to write zip entry %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize package: %w", err)
	}
	return buf.Bytes(), nil
}

// relationships is the _rels part model. Relationship parts use a default
// namespace, so the standard decoder handles them directly.
type relationships struct {
	XMLName       xml.Name       `xml:"Relationships"`
	Relationships []relationship `xml:"Relationship"`
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

var slidePartPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// slideParts returns the slide part names in presentation order. The
// order comes from the sldIdLst of presentation.xml resolved through the
// relationships part; if either is unreadable the numeric part order is
// used so partial packages stay loadable.
func (p *pkg) slideParts() []string {
	if ordered := p.slidePartsFromRels(); len(ordered) > 0 {
		return ordered
	}

	type numbered struct {
		name string
		n    int
	}
	var found []numbered
	for _, name := range p.names {
		m := slidePartPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		found = append(found, numbered{name: name, n: n})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f.name
	}
	return names
}

func (p *pkg) slidePartsFromRels() []string {
	relsData, ok := p.part(presentationRels)
	if !ok {
		return nil
	}
	var rels relationships
	if err := xml.Unmarshal(relsData, &rels); err != nil {
		return nil
	}
	targets := make(map[string]string, len(rels.Relationships))
	for _, rel := range rels.Relationships {
		targets[rel.ID] = rel.Target
	}

	presData, ok := p.part(presentationPart)
	if !ok {
		return nil
	}
	root, err := parseXML(presData)
	if err != nil {
		return nil
	}
	sldIdLst := root.child("sldIdLst")
	if sldIdLst == nil {
		return nil
	}

	var ordered []string
	for _, sldID := range sldIdLst.childrenNamed("sldId") {
		rid := ""
		for _, a := range sldID.Attrs {
			if a.Name.Local == "id" && a.Name.Space == nsR {
				rid = a.Value
				break
			}
		}
		target, ok := targets[rid]
		if !ok {
			continue
		}
		name := path.Clean(path.Join("ppt", target))
		if _, ok := p.part(name); ok {
			ordered = append(ordered, name)
		}
	}
	return ordered
}
