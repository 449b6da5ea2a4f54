package fcp

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// Document is a parsed FCPXML project.
type Document struct {
	Root *Node
}

// ParseFCPXML reads and parses an FCPXML file from disk.
func ParseFCPXML(filePath string) (*Document, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return doc, nil
}

// Parse decodes a whole FCPXML document from r.
func Parse(r io.Reader) (*Document, error) {
	var root Node
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return &Document{Root: &root}, nil
}
