// Package twiml renders engine outputs as TwiML voice documents.
package twiml

import (
	"encoding/xml"
	"fmt"

	"voice-tutor-service/internal/locale"
	"voice-tutor-service/internal/service/conversation"
)

// ContentType is the response content type for TwiML documents.
const ContentType = "application/xml"

// Say speaks text to the caller with a locale-appropriate voice.
type Say struct {
	Voice    string `xml:"voice,attr"`
	Language string `xml:"language,attr"`
	Text     string `xml:",chardata"`
}

// Record captures the caller's spoken reply and posts it back.
type Record struct {
	Action             string `xml:"action,attr"`
	Method             string `xml:"method,attr"`
	Timeout            int    `xml:"timeout,attr"`
	MaxLength          int    `xml:"maxLength,attr"`
	FinishOnKey        string `xml:"finishOnKey,attr"`
	Trim               string `xml:"trim,attr"`
	Transcribe         bool   `xml:"transcribe,attr"`
	TranscribeCallback string `xml:"transcribeCallback,attr,omitempty"`
}

// Redirect hands the call to another webhook.
type Redirect struct {
	Method string `xml:"method,attr"`
	URL    string `xml:",chardata"`
}

// Response is the TwiML document root. Field order fixes verb order:
// spoken text first, then either a recording request or a hangup.
type Response struct {
	XMLName  xml.Name  `xml:"Response"`
	Says     []Say     `xml:"Say"`
	Record   *Record   `xml:"Record"`
	Redirect *Redirect `xml:"Redirect"`
	Hangup   *struct{} `xml:"Hangup"`
}

// RecordConfig carries the recording verb settings and callback URLs.
type RecordConfig struct {
	ActionURL     string
	TranscribeURL string
	TimeoutSec    int
	MaxLengthSec  int
	FinishKey     string
	Trim          bool
}

// DefaultRecordConfig mirrors the provider defaults used for answer
// capture: short silence timeout, capped length, # to finish early.
func DefaultRecordConfig(actionURL, transcribeURL string) RecordConfig {
	return RecordConfig{
		ActionURL:     actionURL,
		TranscribeURL: transcribeURL,
		TimeoutSec:    5,
		MaxLengthSec:  30,
		FinishKey:     "#",
		Trim:          true,
	}
}

// Render builds the TwiML document for one engine output.
func Render(out conversation.Output, loc locale.Locale, cfg RecordConfig) ([]byte, error) {
	var resp Response

	say := func(text string) {
		if text == "" {
			return
		}
		resp.Says = append(resp.Says, Say{
			Voice:    loc.Voice(),
			Language: loc.LanguageTag(),
			Text:     text,
		})
	}
	say(out.Feedback)
	say(out.Prompt)

	switch {
	case out.AwaitInput:
		trim := "do-not-trim"
		if cfg.Trim {
			trim = "trim-silence"
		}
		resp.Record = &Record{
			Action:             cfg.ActionURL,
			Method:             "POST",
			Timeout:            cfg.TimeoutSec,
			MaxLength:          cfg.MaxLengthSec,
			FinishOnKey:        cfg.FinishKey,
			Trim:               trim,
			Transcribe:         cfg.TranscribeURL != "",
			TranscribeCallback: cfg.TranscribeURL,
		}
	default:
		resp.Hangup = &struct{}{}
	}

	return Marshal(resp)
}

// Marshal serializes a Response with the XML declaration.
func Marshal(resp Response) ([]byte, error) {
	body, err := xml.MarshalIndent(resp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal twiml: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
