package doxygen

import (
	"encoding/xml"
	"strings"
)

// Wire types for the doxygen XML output. Only the parts the entity model
// needs are mapped; everything else is skipped by encoding/xml.

type doxIndex struct {
	XMLName   xml.Name           `xml:"doxygenindex"`
	Compounds []doxIndexCompound `xml:"compound"`
}

type doxIndexCompound struct {
	RefID string `xml:"refid,attr"`
	Kind  string `xml:"kind,attr"`
	Name  string `xml:"name"`
}

type doxDocument struct {
	XMLName   xml.Name      `xml:"doxygen"`
	Compounds []compoundDef `xml:"compounddef"`
}

type compoundDef struct {
	ID          string       `xml:"id,attr"`
	Kind        string       `xml:"kind,attr"`
	Name        string       `xml:"compoundname"`
	Title       string       `xml:"title"`
	Location    *location    `xml:"location"`
	Brief       description  `xml:"briefdescription"`
	InnerClass  []innerRef   `xml:"innerclass"`
	InnerGroup  []innerRef   `xml:"innergroup"`
	Sections    []sectionDef `xml:"sectiondef"`
}

type innerRef struct {
	RefID string `xml:"refid,attr"`
}

type sectionDef struct {
	MemberRefs []memberRef `xml:"member"`
	Members    []memberDef `xml:"memberdef"`
}

type memberRef struct {
	RefID string `xml:"refid,attr"`
}

type memberDef struct {
	ID            string         `xml:"id,attr"`
	Kind          string         `xml:"kind,attr"`
	Name          string         `xml:"name"`
	QualifiedName string         `xml:"qualifiedname"`
	Type          *linkedText    `xml:"type"`
	ArgsString    string         `xml:"argsstring"`
	Initializer   *linkedText    `xml:"initializer"`
	Params        []paramDef     `xml:"param"`
	EnumValues    []enumValueDef `xml:"enumvalue"`
	Location      *location      `xml:"location"`
	Brief         description    `xml:"briefdescription"`
}

type paramDef struct {
	Type     *linkedText `xml:"type"`
	DeclName string      `xml:"declname"`
	DefName  string      `xml:"defname"`
	Brief    description `xml:"briefdescription"`
}

type enumValueDef struct {
	ID          string      `xml:"id,attr"`
	Name        string      `xml:"name"`
	Initializer *linkedText `xml:"initializer"`
	Brief       description `xml:"briefdescription"`
}

type location struct {
	File      string `xml:"file,attr"`
	Line      int    `xml:"line,attr"`
	BodyFile  string `xml:"bodyfile,attr"`
	BodyStart int    `xml:"bodystart,attr"`
	DeclFile  string `xml:"declfile,attr"`
	DeclLine  int    `xml:"declline,attr"`
}

// linkedText is doxygen's mixed text-and-<ref> content, flattened to the
// rendered string: plain character data plus the link text of any <ref>
// children, other markup dropped.
type linkedText struct {
	Text string
}

func (lt *linkedText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var sb strings.Builder
	depth := 0
	inRef := false
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			if depth == 0 || inRef {
				sb.Write(t)
			}
		case xml.StartElement:
			depth++
			inRef = depth == 1 && t.Name.Local == "ref"
		case xml.EndElement:
			if depth == 0 {
				lt.Text = sb.String()
				return nil
			}
			depth--
			if depth == 0 {
				inRef = false
			}
		}
	}
}

// textOrVoid mirrors the rendered-text rule for type references: an
// absent element means "void".
func textOrVoid(lt *linkedText) string {
	if lt == nil {
		return "void"
	}
	return lt.Text
}

func text(lt *linkedText) string {
	if lt == nil {
		return ""
	}
	return lt.Text
}

// description flattens a (possibly nested) description block to plain
// text: all character data, whitespace-normalized.
type description struct {
	Text string
}

func (ds *description) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var sb strings.Builder
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				ds.Text = strings.Join(strings.Fields(sb.String()), " ")
				return nil
			}
			depth--
		}
	}
}
