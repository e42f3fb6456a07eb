// Package mods builds canonical mod records from parsed control files,
// extracted README spans, and file-level attributes.
package mods

import (
	"net/url"
	"path"
	"strings"
	"time"
)

// LinkKind classifies an associated URL for presentation purposes.
type LinkKind string

const (
	LinkImage LinkKind = "image"
	LinkVideo LinkKind = "video"
	LinkOther LinkKind = "other"
)

// Link is a classified, optionally labeled URL attached to a mod.
type Link struct {
	Label string   `json:"label,omitempty"`
	URL   string   `json:"url"`
	Kind  LinkKind `json:"kind"`
}

var imageExts = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".bmp": {}, ".svg": {},
}

var videoExts = map[string]struct{}{
	".mp4": {}, ".webm": {}, ".mov": {}, ".mkv": {}, ".avi": {},
}

var videoHosts = map[string]struct{}{
	"youtube.com": {}, "www.youtube.com": {}, "youtu.be": {}, "vimeo.com": {}, "streamable.com": {},
}

// Classify builds a Link from a label and raw URL, deciding its kind from
// the path extension and, failing that, the host.
func Classify(label, rawURL string) Link {
	link := Link{Label: label, URL: rawURL, Kind: LinkOther}
	u, err := url.Parse(rawURL)
	if err != nil {
		return link
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if _, ok := imageExts[ext]; ok {
		link.Kind = LinkImage
		return link
	}
	if _, ok := videoExts[ext]; ok {
		link.Kind = LinkVideo
		return link
	}
	if _, ok := videoHosts[strings.ToLower(u.Host)]; ok {
		link.Kind = LinkVideo
	}
	return link
}

// ModFile is one physical mod artifact owned by exactly one ModRecord.
type ModFile struct {
	Name    string    `json:"name"`
	RelPath string    `json:"rel_path"` // tree-relative file path
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	SHA256  string    `json:"sha256"`
}

// ModRecord is the canonical unit of output: one mod, ready for projection.
type ModRecord struct {
	Key          string    `json:"key"` // unique within a run
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	Source       string    `json:"source"` // originating tree name
	Dir          string    `json:"dir"`    // tree-relative directory
	Categories   []string  `json:"categories"`
	Links        []Link    `json:"links,omitempty"`
	Description  []string  `json:"description,omitempty"`
	Summary      string    `json:"summary,omitempty"`
	Changelog    []string  `json:"changelog,omitempty"`
	Files        []ModFile `json:"files"`
	Related      []string  `json:"related,omitempty"` // keys of same-titled mods by other authors
	LastModified time.Time `json:"last_modified"`
}

// Stem strips the final extension from a filename.
func Stem(name string) string {
	if ext := path.Ext(name); ext != "" && ext != name {
		return name[:len(name)-len(ext)]
	}
	return name
}
