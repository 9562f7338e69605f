package models

import "time"

// AudioFile is a regular file discovered in an audio directory.
type AudioFile struct {
	Path      string
	Name      string
	Extension string
	Size      int64
}

// Episode represents the metadata rendered into the feed for a single audio file.
type Episode struct {
	Filename        string
	Title           string
	Description     string
	EnclosureURL    string
	Length          int64
	PubDate         time.Time
	GUID            string
	DurationSeconds *float64
	Author          *string
	BookIndex       int
}
