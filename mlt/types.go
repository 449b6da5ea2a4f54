// Package mlt builds MLT XML composites (the format read by melt and Shotcut)
// from extracted keyed-footage intervals.
package mlt

import "encoding/xml"

// Document is the <mlt> root. Children are written in dependency order by
// MarshalXML: profile, main bin, producers, playlists, tractor.
type Document struct {
	LCNumeric string
	Version   string
	Title     string
	// Root is the id named by the root producer attribute.
	Root string

	Profile   Profile
	MainBin   Playlist
	Producers []Producer
	Playlists []Playlist
	Tractor   Tractor
}

type Profile struct {
	Description      string `xml:"description,attr"`
	Width            int    `xml:"width,attr"`
	Height           int    `xml:"height,attr"`
	Progressive      int    `xml:"progressive,attr"`
	SampleAspectNum  int    `xml:"sample_aspect_num,attr"`
	SampleAspectDen  int    `xml:"sample_aspect_den,attr"`
	DisplayAspectNum int    `xml:"display_aspect_num,attr"`
	DisplayAspectDen int    `xml:"display_aspect_den,attr"`
	FrameRateNum     int    `xml:"frame_rate_num,attr"`
	FrameRateDen     int    `xml:"frame_rate_den,attr"`
	Colorspace       int    `xml:"colorspace,attr"`
}

type Property struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type Filter struct {
	ID         string     `xml:"id,attr"`
	Service    string     `xml:"mlt_service,attr"`
	Properties []Property `xml:"property"`
}

// Producer is a playable unit. In and Out are nil for unbounded producers
// such as the black background.
type Producer struct {
	ID         string     `xml:"id,attr"`
	In         *int       `xml:"in,attr"`
	Out        *int       `xml:"out,attr"`
	Properties []Property `xml:"property"`
	Filters    []Filter   `xml:"filter"`
}

// Property returns the value of the named property.
func (p Producer) Property(name string) (string, bool) {
	for _, prop := range p.Properties {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return "", false
}

type Playlist struct {
	ID                   string     `xml:"id,attr"`
	Title                string     `xml:"title,attr,omitempty"`
	ProjectAudioChannels string     `xml:"shotcut:projectAudioChannels,attr,omitempty"`
	ProjectFolder        string     `xml:"shotcut:projectFolder,attr,omitempty"`
	Video                string     `xml:"shotcut:video,attr,omitempty"`
	Name                 string     `xml:"shotcut:name,attr,omitempty"`
	Properties           []Property `xml:"property"`
	Entries              []Entry    `xml:"entry"`
}

type Entry struct {
	Producer string `xml:"producer,attr"`
	In       int    `xml:"in,attr"`
	Out      int    `xml:"out,attr"`
}

type Tractor struct {
	ID          string       `xml:"id,attr"`
	Title       string       `xml:"title,attr,omitempty"`
	Shotcut     string       `xml:"shotcut,attr,omitempty"`
	In          int          `xml:"in,attr"`
	Out         int          `xml:"out,attr"`
	Multitrack  Multitrack   `xml:"multitrack"`
	Transitions []Transition `xml:"transition"`
}

type Multitrack struct {
	Tracks []Track `xml:"track"`
}

type Track struct {
	Producer string `xml:"producer,attr"`
}

type Transition struct {
	ID           string `xml:"id,attr"`
	Service      string `xml:"mlt_service,attr"`
	AlwaysActive string `xml:"always_active,attr,omitempty"`
	Sum          string `xml:"sum,attr,omitempty"`
	ATrack       int    `xml:"a_track,attr"`
	BTrack       int    `xml:"b_track,attr"`
	Threads      string `xml:"threads,attr,omitempty"`
}

// MarshalXML writes the root in the order MLT resolves references: a
// producer must be declared before any playlist or track that uses it.
func (d Document) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "mlt"}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "LC_NUMERIC"}, Value: d.LCNumeric},
		{Name: xml.Name{Local: "version"}, Value: d.Version},
		{Name: xml.Name{Local: "title"}, Value: d.Title},
		{Name: xml.Name{Local: "producer"}, Value: d.Root},
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if err := e.EncodeElement(d.Profile, element("profile")); err != nil {
		return err
	}
	if err := e.EncodeElement(d.MainBin, element("playlist")); err != nil {
		return err
	}
	for _, p := range d.Producers {
		if err := e.EncodeElement(p, element("producer")); err != nil {
			return err
		}
	}
	for _, p := range d.Playlists {
		if err := e.EncodeElement(p, element("playlist")); err != nil {
			return err
		}
	}
	if err := e.EncodeElement(d.Tractor, element("tractor")); err != nil {
		return err
	}

	return e.EncodeToken(start.End())
}

func element(name string) xml.StartElement {
	return xml.StartElement{Name: xml.Name{Local: name}}
}

// Producer returns the declared producer with the given id.
func (d *Document) Producer(id string) (Producer, bool) {
	for _, p := range d.Producers {
		if p.ID == id {
			return p, true
		}
	}
	return Producer{}, false
}

// Playlist returns the declared playlist with the given id, including the
// main bin.
func (d *Document) Playlist(id string) (Playlist, bool) {
	if d.MainBin.ID == id {
		return d.MainBin, true
	}
	for _, p := range d.Playlists {
		if p.ID == id {
			return p, true
		}
	}
	return Playlist{}, false
}

// TotalFrames is the length of the composition.
func (d *Document) TotalFrames() int {
	return d.Tractor.Out - d.Tractor.In + 1
}
