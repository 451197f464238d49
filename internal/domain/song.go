package domain

import "fmt"

// Song is one record of the playlist catalog
type Song struct {
	ID       int    `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Artist   string `yaml:"artist" json:"artist"`
	ImageURL string `yaml:"image_url" json:"image_url"`
	AudioURL string `yaml:"audio_url" json:"audio_url"`
	Lyrics   string `yaml:"lyrics" json:"lyrics"`
	Comment  string `yaml:"comment" json:"comment"`
}

// HasAudio reports whether the song carries a playable reference
func (s Song) HasAudio() bool {
	return s.AudioURL != ""
}

// Caption returns the "Title by Artist" alt text used for cover art
func (s Song) Caption() string {
	return fmt.Sprintf("%s by %s", s.Title, s.Artist)
}
