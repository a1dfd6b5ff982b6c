package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/joseph-ayodele/dsm-migrator/constants"
	"github.com/joseph-ayodele/dsm-migrator/internal/common"
	"github.com/joseph-ayodele/dsm-migrator/internal/entity"
)

// xmlContainers maps the fixed container element names searched in a markup
// export to their entity kinds.
var xmlContainers = map[string]constants.EntityKind{
	"jobs":        constants.KindJobs,
	"employees":   constants.KindEmployees,
	"customers":   constants.KindCustomers,
	"timeentries": constants.KindTimeEntries,
	"materials":   constants.KindMaterials,
	"worktypes":   constants.KindWorkTypes,
}

// parseXML walks the document for known container elements; each child element
// becomes one record with its tag/text pairs as fields.
func (p *Parser) parseXML(data []byte, bundle *entity.ExportBundle) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	found := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return common.NewAppError("XML_PARSE", "decoding document", common.ErrParseFailure)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		kind, ok := xmlContainers[strings.ToLower(start.Name.Local)]
		if !ok {
			continue
		}
		records, err := decodeXMLContainer(dec, start.Name.Local)
		if err != nil {
			return err
		}
		if len(records) > 0 {
			found = true
			bundle.Records[kind] = append(bundle.Records[kind], records...)
			p.logger.Debug("parse.xml.table", "kind", kind, "rows", len(records))
		}
	}
	if !found {
		return common.NewAppError("XML_PARSE", "no known DSM tables in document", common.ErrUnknownDataType)
	}
	return nil
}

// decodeXMLContainer consumes tokens until the container closes, turning each
// child element into a record.
func decodeXMLContainer(dec *xml.Decoder, container string) ([]entity.Record, error) {
	var records []entity.Record
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, common.NewAppError("XML_PARSE", "decoding table "+container, common.ErrParseFailure)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			rec, err := decodeXMLRecord(dec, t.Name.Local)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		case xml.EndElement:
			if t.Name.Local == container {
				return records, nil
			}
		}
	}
}

// decodeXMLRecord reads one record element: each child's tag becomes a field
// and its character data the value. Nested markup inside a field degrades to
// the concatenated text.
func decodeXMLRecord(dec *xml.Decoder, element string) (entity.Record, error) {
	rec := make(entity.Record)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, common.NewAppError("XML_PARSE", "decoding record "+element, common.ErrParseFailure)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			field := CanonicalHeader(t.Name.Local)
			text, err := readXMLText(dec, t.Name.Local)
			if err != nil {
				return nil, err
			}
			if field != "" {
				rec[field] = strings.TrimSpace(text)
			}
		case xml.EndElement:
			if t.Name.Local == element {
				return rec, nil
			}
		}
	}
}

func readXMLText(dec *xml.Decoder, element string) (string, error) {
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", common.NewAppError("XML_PARSE", "decoding field "+element, common.ErrParseFailure)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			if t.Name.Local == element {
				return b.String(), nil
			}
		}
	}
}
