// Package version exposes the build and distribution metadata of pms.
package version

import (
	"regexp"
	"strings"
)

const (
	// Name is the name of the installed executable.
	Name = "pms"
	// DisplayName is the human-readable program name.
	DisplayName = "Poor Man's Spotify"
	// Description is the one-line program summary.
	Description = "Search, Stream and Download MP3"
	// Author is the program author.
	Author = "nagev"
	// AuthorEmail is the author contact address.
	AuthorEmail = "np1nagev@gmail.com"
	// URL is the project home page.
	URL = "http://github.com/np1/pms/"
	// DownloadURL points to the latest source tarball.
	DownloadURL = "https://github.com/np1/pms/tarball/master"
	// License is the short license name.
	License = "GPLv3"
	// Usage is the run instruction shown to users.
	Usage = Name + " [search term]"
)

var (
	// Version is the semantic version of the build. Overridden with -ldflags at release time.
	//
	//nolint:gochecknoglobals // Set by the linker.
	Version = "0.16.10"

	// Commit is the VCS revision of the build.
	//
	//nolint:gochecknoglobals // Set by the linker.
	Commit = "none"

	// BuildTime is the build timestamp.
	//
	//nolint:gochecknoglobals // Set by the linker.
	BuildTime = "unknown"

	//nolint:gochecknoglobals // Read-only metadata list.
	keywords = []string{"MP3", "music", "audio", "search", "stream", "download"}

	// Programming Language classifiers are left out on purpose: pms ships as a single
	// compiled binary and has no interpreter version to declare.
	//
	//nolint:gochecknoglobals // Read-only metadata list.
	classifiers = []string{
		"Development Status :: 5 - Production/Stable",
		"Environment :: Console",
		"Intended Audience :: End Users/Desktop",
		"License :: OSI Approved :: GNU General Public License v3 (GPLv3)",
		"Operating System :: POSIX :: Linux",
		"Topic :: Internet :: WWW/HTTP",
		"Topic :: Multimedia :: Sound/Audio :: Players",
		"Topic :: Utilities",
	}

	//nolint:gochecknoglobals // Compiled once.
	semverRegexp = regexp.MustCompile(
		`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
			`(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?` +
			`(?:\+([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`)
)

// Metadata groups the distribution metadata of the program.
type Metadata struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Version     string   `json:"version"`
	Commit      string   `json:"commit"`
	BuildTime   string   `json:"build_time"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Author      string   `json:"author"`
	AuthorEmail string   `json:"author_email"`
	URL         string   `json:"url"`
	DownloadURL string   `json:"download_url"`
	License     string   `json:"license"`
	Classifiers []string `json:"classifiers"`
}

// Short returns the version string.
func Short() string {
	return Version
}

// Full returns the version with commit and build time.
func Full() string {
	return "version: " + Version + ", commit: " + Commit + ", built at: " + BuildTime
}

// Keywords returns a copy of the keyword list.
func Keywords() []string {
	return append([]string(nil), keywords...)
}

// Classifiers returns a copy of the classifier list.
func Classifiers() []string {
	return append([]string(nil), classifiers...)
}

// IsValidVersion reports whether v is a semantic version (MAJOR.MINOR.PATCH[-pre][+build]).
// A leading "v" is accepted.
func IsValidVersion(v string) bool {
	return semverRegexp.MatchString(strings.TrimPrefix(v, "v"))
}

// Info returns all distribution metadata.
func Info() Metadata {
	return Metadata{
		Name:        Name,
		DisplayName: DisplayName,
		Version:     Version,
		Commit:      Commit,
		BuildTime:   BuildTime,
		Description: Description,
		Keywords:    Keywords(),
		Author:      Author,
		AuthorEmail: AuthorEmail,
		URL:         URL,
		DownloadURL: DownloadURL,
		License:     License,
		Classifiers: Classifiers(),
	}
}
