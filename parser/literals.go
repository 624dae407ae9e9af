// This file is part of bdelisp - https://github.com/dgoffredo/bdelisp
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"encoding/base64"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/dgoffredo/bdelisp/datum"
)

// decodeString unescapes a STRING token's text (including its surrounding
// quotes) per the JSON-extended grammar of spec section 4.2: backslash
// escapes, with unescaped control characters permitted verbatim.
func decodeString(text string) (string, error) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", errors.Errorf("malformed string token %q", text)
	}
	body := text[1 : len(text)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", errors.Errorf("trailing backslash in string %q", text)
		}
		switch body[i] {
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case '/':
			b.WriteByte('/')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			if i+4 >= len(body) {
				return "", errors.Errorf("truncated \\u escape in %q", text)
			}
			code, err := strconv.ParseUint(body[i+1:i+5], 16, 32)
			if err != nil {
				return "", errors.Wrapf(err, "bad \\u escape in %q", text)
			}
			b.WriteRune(rune(code))
			i += 4
		default:
			return "", errors.Errorf("unknown escape \\%c in %q", body[i], text)
		}
	}
	return b.String(), nil
}

// decodeBytes decodes a BYTES token's text (`#base64"..."`) into raw
// bytes.
func decodeBytes(text string) ([]byte, error) {
	const prefix = `#base64"`
	if !strings.HasPrefix(text, prefix) || !strings.HasSuffix(text, `"`) {
		return nil, errors.Errorf("malformed bytes token %q", text)
	}
	body := text[len(prefix) : len(text)-1]
	return base64.StdEncoding.DecodeString(body)
}

var dateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
var timeRe = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})(?:\.(\d+))?`)
var intervalRe = regexp.MustCompile(`^(-)?#P(?:(\d+)D)?(?:T(?:(\d+(?:\.\d+)?)H)?(?:(\d+(?:\.\d+)?)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

func parseDate(text string) (datum.Date, error) {
	m := dateRe.FindStringSubmatch(text)
	if m == nil {
		return datum.Date{}, errors.Errorf("malformed date %q", text)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return datum.Date{Year: int32(year), Month: int8(month), Day: int8(day)}, nil
}

func parseTime(text string) (datum.Time, error) {
	m := timeRe.FindStringSubmatch(text)
	if m == nil {
		return datum.Time{}, errors.Errorf("malformed time %q", text)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	second, _ := strconv.Atoi(m[3])
	nanos := int32(0)
	if m[4] != "" {
		frac := (m[4] + "000000000")[:9]
		n, _ := strconv.Atoi(frac)
		nanos = int32(n)
	}
	return datum.Time{Hour: int8(hour), Minute: int8(minute), Second: int8(second), Nanosecond: nanos}, nil
}

func parseDateTime(text string) (datum.DateTime, error) {
	idx := strings.IndexByte(text, 'T')
	if idx < 0 {
		return datum.DateTime{}, errors.Errorf("malformed datetime %q", text)
	}
	d, err := parseDate(text[:idx])
	if err != nil {
		return datum.DateTime{}, err
	}
	rest := text[idx+1:]
	rest = strings.TrimSuffix(rest, "Z")
	if at := strings.IndexAny(rest, "+-"); at > 0 {
		rest = rest[:at]
	}
	tm, err := parseTime(rest)
	if err != nil {
		return datum.DateTime{}, err
	}
	return datum.DateTime{Date: d, Time: tm}, nil
}

func parseInterval(text string) (datum.DateTimeInterval, error) {
	m := intervalRe.FindStringSubmatch(text)
	if m == nil {
		return datum.DateTimeInterval{}, errors.Errorf("malformed interval %q", text)
	}
	negative := m[1] == "-"
	days := atoi32(m[2])
	hours := atoi32(wholePart(m[3]))
	minutes := atoi32(wholePart(m[4]))
	secWhole := wholePart(m[5])
	secs := atoi32(secWhole)
	nanos := int32(0)
	if frac := fracPart(m[5]); frac != "" {
		padded := (frac + "000000000")[:9]
		n, _ := strconv.Atoi(padded)
		nanos = int32(n)
	}
	return datum.DateTimeInterval{
		Negative: negative, Days: days, Hours: hours, Minutes: minutes,
		Secs: secs, Nanosecond: nanos,
	}, nil
}

func atoi32(s string) int32 {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return int32(n)
}

func wholePart(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i]
	}
	return s
}

func fracPart(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return ""
}
