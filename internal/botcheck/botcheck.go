// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package botcheck screens contact-form submissions for automated spam.
// It combines three cheap signals: a honeypot field that humans never see,
// an HMAC-signed render timestamp that enforces a minimum fill time and a
// maximum form age, and a link-count check on the message body.
package botcheck

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	// minFillTime is the shortest plausible time for a human to fill the form.
	minFillTime = 3 * time.Second

	// maxFormAge invalidates stale or replayed form timestamps.
	maxFormAge = 2 * time.Hour

	// maxBodyLinks is the number of URLs tolerated in a message body.
	maxBodyLinks = 3
)

var urlPattern = regexp.MustCompile(`https?://`)

// Submission carries the form fields the detector inspects.
type Submission struct {
	Honeypot  string // hidden "website" field; must be empty
	Timestamp string // form_ts hidden field, unix seconds
	Signature string // form_sig hidden field, HMAC of form_ts
	Body      string // message body
}

// Detector validates contact-form submissions against bot heuristics.
type Detector struct {
	secret []byte
}

// New creates a Detector. The secret signs form timestamps so clients
// cannot forge or rewind them.
func New(secret string) *Detector {
	return &Detector{secret: []byte(secret)}
}

// Stamp returns the timestamp and signature fields to embed in the form
// at render time.
func (d *Detector) Stamp(now time.Time) (ts, sig string) {
	ts = strconv.FormatInt(now.Unix(), 10)
	return ts, d.sign(ts)
}

// Check inspects a submission and returns a non-empty reason if it looks
// automated. Callers should accept the request outwardly and drop the
// message, so bots get no signal that they were detected.
func (d *Detector) Check(s Submission, now time.Time) string {
	if s.Honeypot != "" {
		return "honeypot filled"
	}

	if s.Timestamp == "" || s.Signature == "" {
		return "missing form timestamp"
	}
	if !hmac.Equal([]byte(d.sign(s.Timestamp)), []byte(s.Signature)) {
		return "invalid timestamp signature"
	}
	unix, err := strconv.ParseInt(s.Timestamp, 10, 64)
	if err != nil {
		return "malformed form timestamp"
	}
	elapsed := now.Sub(time.Unix(unix, 0))
	if elapsed < minFillTime {
		return fmt.Sprintf("submitted in %s", elapsed.Round(time.Millisecond))
	}
	if elapsed > maxFormAge {
		return "form expired"
	}

	if n := len(urlPattern.FindAllStringIndex(s.Body, -1)); n > maxBodyLinks {
		return fmt.Sprintf("body contains %d links", n)
	}

	return ""
}

// sign computes the hex HMAC-SHA256 of the timestamp string.
func (d *Detector) sign(ts string) string {
	mac := hmac.New(sha256.New, d.secret)
	mac.Write([]byte(ts))
	return hex.EncodeToString(mac.Sum(nil))
}
