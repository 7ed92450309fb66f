package query

import (
	"strings"
	"testing"
	"time"

	"flightetl/internal/flight"
)

func TestBuildRequest(t *testing.T) {
	params := RequestParams{
		SearchAttrs:        map[string]string{"version": "2", "agent": "etl"},
		SearchControlAttrs: map[string]string{"legacy": "false"},
		Date:               "2026-03-15",
		MinConnectionTime:  "45",
		MaxStopCount:       "1",
		DaysAfter:          "0",
		Summarizer:         "itineraryFullDetail",
	}
	payload := Payload{
		Direction: flight.DirectionOrigin,
		Primary:   []string{"SFO", "LAX"},
		Secondary: []string{"NRT"},
		BatchNum:  1,
	}

	raw, err := BuildRequest(params, flight.ServiceType("J"), payload)
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}
	doc := string(raw)

	// Attributes render in sorted key order.
	if !strings.Contains(doc, `<search agent="etl" version="2">`) {
		t.Errorf("document missing sorted search attrs:\n%s", doc)
	}
	if !strings.Contains(doc, `<searchControl legacy="false">`) {
		t.Errorf("document missing searchControl attrs:\n%s", doc)
	}

	// Element ordering inside the slice.
	ordered := []string{
		"<permittedServiceType>J</permittedServiceType>",
		"<slice>",
		"<date>2026-03-15</date>",
		"<minConnectionTime>45</minConnectionTime>",
		"<maxStopCount>1</maxStopCount>",
		"<daysAfter>0</daysAfter>",
		"<origin>SFO</origin>",
		"<origin>LAX</origin>",
		"<destination>NRT</destination>",
		"</slice>",
		"</searchControl>",
		"</inputs>",
		"<summarizer>itineraryFullDetail</summarizer>",
	}
	last := -1
	for _, want := range ordered {
		idx := strings.Index(doc, want)
		if idx < 0 {
			t.Fatalf("document missing %q:\n%s", want, doc)
		}
		if idx < last {
			t.Fatalf("element %q out of order:\n%s", want, doc)
		}
		last = idx
	}
}

func TestBuildRequest_DestinationDirection(t *testing.T) {
	payload := Payload{
		Direction: flight.DirectionDestination,
		Primary:   []string{"NRT"},
		Secondary: []string{"SFO"},
		BatchNum:  1,
	}

	raw, err := BuildRequest(RequestParams{Date: "2026-03-15"}, flight.ServiceType("F"), payload)
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}
	doc := string(raw)

	// The batched side takes the destination element name.
	destIdx := strings.Index(doc, "<destination>NRT</destination>")
	origIdx := strings.Index(doc, "<origin>SFO</origin>")
	if destIdx < 0 || origIdx < 0 {
		t.Fatalf("document missing swapped elements:\n%s", doc)
	}
	if destIdx > origIdx {
		t.Fatalf("batched destinations should precede origins:\n%s", doc)
	}
}

func TestBuildRequest_DateDefaultsToToday(t *testing.T) {
	raw, err := BuildRequest(RequestParams{}, flight.ServiceType("J"), Payload{
		Direction: flight.DirectionOrigin,
		BatchNum:  1,
	})
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}

	today := time.Now().Format("2006-01-02")
	if !strings.Contains(string(raw), "<date>"+today+"</date>") {
		t.Fatalf("document does not default the date to today:\n%s", raw)
	}
}
