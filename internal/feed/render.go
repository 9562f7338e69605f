package feed

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"theatre-podcast/internal/catalog"
	"theatre-podcast/internal/models"
)

const (
	itunesNamespace = "http://www.itunes.com/dtds/podcast-1.0.dtd"
	enclosureType   = "audio/mpeg"
)

// Channel describes the static information necessary to render the RSS feed.
type Channel struct {
	Title       string
	Link        string
	Description string
	Language    string
	ArtworkURL  string
	BaseURL     string
	Author      string
}

// Render serializes the channel and its episodes, in the given order, as an
// RSS 2.0 document with the iTunes namespace and an XML declaration.
func Render(channel Channel, episodes []models.Episode) ([]byte, error) {
	rss := rssFeed{
		Version:  "2.0",
		ITunesNS: itunesNamespace,
		Channel: rssChannel{
			Title:        channel.Title,
			Link:         channel.Link,
			Description:  channel.Description,
			Language:     channel.Language,
			ITunesImage:  rssImage{Href: channel.ArtworkURL},
			ITunesAuthor: channel.Author,
			Items:        make([]rssItem, 0, len(episodes)),
		},
	}

	for _, ep := range episodes {
		item := rssItem{
			Title:       ep.Title,
			Description: ep.Description,
			Enclosure: rssEnclosure{
				URL:    ep.EnclosureURL,
				Length: strconv.FormatInt(ep.Length, 10),
				Type:   enclosureType,
			},
			PubDate: catalog.FormatPubDate(ep.PubDate),
			GUID:    rssGUID{IsPermaLink: "false", Value: ep.GUID},
		}

		if ep.DurationSeconds != nil {
			item.ITunesDuration = formatDuration(*ep.DurationSeconds)
		}
		if ep.Author != nil {
			item.ITunesAuthor = *ep.Author
		}

		rss.Channel.Items = append(rss.Channel.Items, item)
	}

	output, err := xml.MarshalIndent(rss, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), output...), nil
}

// EnclosureURL joins the public audio base URL and a filename.
func EnclosureURL(base, filename string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(filename)
}

// GUID derives a stable identifier from an enclosure URL.
func GUID(enclosureURL string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(enclosureURL)).String()
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	total := int64(seconds + 0.5)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

type rssFeed struct {
	XMLName  xml.Name   `xml:"rss"`
	Version  string     `xml:"version,attr"`
	ITunesNS string     `xml:"xmlns:itunes,attr"`
	Channel  rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title        string    `xml:"title"`
	Link         string    `xml:"link"`
	Description  string    `xml:"description"`
	Language     string    `xml:"language"`
	ITunesImage  rssImage  `xml:"itunes:image"`
	ITunesAuthor string    `xml:"itunes:author,omitempty"`
	Items        []rssItem `xml:"item"`
}

type rssImage struct {
	Href string `xml:"href,attr"`
}

type rssItem struct {
	Title          string       `xml:"title"`
	Description    string       `xml:"description"`
	Enclosure      rssEnclosure `xml:"enclosure"`
	PubDate        string       `xml:"pubDate"`
	GUID           rssGUID      `xml:"guid"`
	ITunesDuration string       `xml:"itunes:duration,omitempty"`
	ITunesAuthor   string       `xml:"itunes:author,omitempty"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length string `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}
