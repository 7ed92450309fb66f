package query

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"time"

	"flightetl/internal/flight"
)

// RequestParams carries the request-construction parameters supplied by the
// external parameter source. Attribute maps are emitted in sorted key order
// so the rendered document is deterministic.
type RequestParams struct {
	SearchAttrs        map[string]string
	SearchControlAttrs map[string]string

	// Date defaults to the current day (YYYY-MM-DD) when empty.
	Date              string
	MinConnectionTime string
	MaxStopCount      string
	DaysAfter         string
	Summarizer        string
}

// BuildRequest renders one payload into the upstream XML request document:
//
//	<search ...>
//	  <inputs>
//	    <searchControl ...>
//	      <permittedServiceType>J</permittedServiceType>
//	      <slice>
//	        <date>…</date> <minConnectionTime>…</minConnectionTime>
//	        <maxStopCount>…</maxStopCount> <daysAfter>…</daysAfter>
//	        <origin>…</origin>* <destination>…</destination>*
//	      </slice>
//	    </searchControl>
//	  </inputs>
//	  <summarizer>…</summarizer>
//	</search>
//
// The batched side's element name follows the payload direction.
func BuildRequest(p RequestParams, serviceType flight.ServiceType, payload Payload) ([]byte, error) {
	date := p.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	primaryElem, secondaryElem := "origin", "destination"
	if payload.Direction == flight.DirectionDestination {
		primaryElem, secondaryElem = "destination", "origin"
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)

	toks := []xml.Token{
		start("search", p.SearchAttrs),
		start("inputs", nil),
		start("searchControl", p.SearchControlAttrs),
	}
	toks = append(toks, textElem("permittedServiceType", string(serviceType))...)
	toks = append(toks, start("slice", nil))
	toks = append(toks, textElem("date", date)...)
	toks = append(toks, textElem("minConnectionTime", p.MinConnectionTime)...)
	toks = append(toks, textElem("maxStopCount", p.MaxStopCount)...)
	toks = append(toks, textElem("daysAfter", p.DaysAfter)...)
	for _, code := range payload.Primary {
		toks = append(toks, textElem(primaryElem, code)...)
	}
	for _, code := range payload.Secondary {
		toks = append(toks, textElem(secondaryElem, code)...)
	}
	toks = append(toks,
		end("slice"),
		end("searchControl"),
		end("inputs"),
	)
	toks = append(toks, textElem("summarizer", p.Summarizer)...)
	toks = append(toks, end("search"))

	for _, tok := range toks {
		if err := enc.EncodeToken(tok); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("flush request: %w", err)
	}
	return buf.Bytes(), nil
}

func start(name string, attrs map[string]string) xml.StartElement {
	el := xml.StartElement{Name: xml.Name{Local: name}}
	if len(attrs) == 0 {
		return el
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		el.Attr = append(el.Attr, xml.Attr{Name: xml.Name{Local: k}, Value: attrs[k]})
	}
	return el
}

func end(name string) xml.EndElement {
	return xml.EndElement{Name: xml.Name{Local: name}}
}

func textElem(name, text string) []xml.Token {
	return []xml.Token{
		start(name, nil),
		xml.CharData(text),
		end(name),
	}
}
