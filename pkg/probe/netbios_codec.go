/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package probe

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"time"
)

// NBSTAT reply layout
const (
	nbstatAnswerCountOffset = 56
	nbstatAnswersOffset     = 57
	nbstatEntryLen          = 18
	nbstatNameLen           = 15
	nbstatGroupFlag         = 0x80
)

// SMB session setup reply layout, offsets include the 4 byte session header
const (
	smbBlobLengthOffset = 43
	smbBlobOffset       = 47

	ntlmTargetInfoLenOffset    = 40
	ntlmTargetInfoOffsetOffset = 44
	ntlmMajorOffset            = 48
	ntlmMinorOffset            = 49
	ntlmBuildOffset            = 50
	ntlmRevisionOffset         = 55

	avPairHeaderLen = 4
	avEOL           = 0x0000
	avTimestamp     = 0x0007

	// 100ns intervals between 1601-01-01 and 1970-01-01
	filetimeUnixEpoch = 116444736000000000

	nbssHeaderLen   = 4
	nbssMaxFrameLen = 1 << 17
	smbReadLimit    = 1024
)

var (
	ntlmSignature = []byte("NTLMSSP")

	avPairFields = map[uint16]string{
		0x0001: "netbios_computer_name",
		0x0002: "netbios_domain_name",
		0x0003: "dns_computer_name",
		0x0004: "dns_domain_name",
	}

	// wildcard "*" node status request
	nbstatQuery = buildNBSTATQuery()

	// encoded caller name of the session request
	nbssCallingName = []byte(" EOENEBFACACACACACACACACACACACACA\x00")

	smbNegotiateRequest = []byte{
		0x00, 0x00, 0x00, 0x85, 0xff, 0x53, 0x4d, 0x42, 0x72, 0x00, 0x00, 0x00,
		0x00, 0x18, 0x53, 0xc8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff, 0xfe, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x62, 0x00, 0x02, 0x50, 0x43, 0x20, 0x4e, 0x45, 0x54, 0x57, 0x4f,
		0x52, 0x4b, 0x20, 0x50, 0x52, 0x4f, 0x47, 0x52, 0x41, 0x4d, 0x20, 0x31,
		0x2e, 0x30, 0x00, 0x02, 0x4c, 0x41, 0x4e, 0x4d, 0x41, 0x4e, 0x31, 0x2e,
		0x30, 0x00, 0x02, 0x57, 0x69, 0x6e, 0x64, 0x6f, 0x77, 0x73, 0x20, 0x66,
		0x6f, 0x72, 0x20, 0x57, 0x6f, 0x72, 0x6b, 0x67, 0x72, 0x6f, 0x75, 0x70,
		0x73, 0x20, 0x33, 0x2e, 0x31, 0x61, 0x00, 0x02, 0x4c, 0x4d, 0x31, 0x2e,
		0x32, 0x58, 0x30, 0x30, 0x32, 0x00, 0x02, 0x4c, 0x41, 0x4e, 0x4d, 0x41,
		0x4e, 0x32, 0x2e, 0x31, 0x00, 0x02, 0x4e, 0x54, 0x20, 0x4c, 0x4d, 0x20,
		0x30, 0x2e, 0x31, 0x32, 0x00,
	}

	// session setup carrying an NTLMSSP negotiate message
	smbSessionSetupRequest = []byte{
		0x00, 0x00, 0x01, 0x0a, 0xff, 0x53, 0x4d, 0x42, 0x73, 0x00, 0x00, 0x00,
		0x00, 0x18, 0x07, 0xc8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff, 0xfe, 0x00, 0x00, 0x40, 0x00,
		0x0c, 0xff, 0x00, 0x0a, 0x01, 0x04, 0x41, 0x32, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x4a, 0x00, 0x00, 0x00, 0x00, 0x00, 0xd4, 0x00, 0x00,
		0xa0, 0xcf, 0x00, 0x60, 0x48, 0x06, 0x06, 0x2b, 0x06, 0x01, 0x05, 0x05,
		0x02, 0xa0, 0x3e, 0x30, 0x3c, 0xa0, 0x0e, 0x30, 0x0c, 0x06, 0x0a, 0x2b,
		0x06, 0x01, 0x04, 0x01, 0x82, 0x37, 0x02, 0x02, 0x0a, 0xa2, 0x2a, 0x04,
		0x28, 0x4e, 0x54, 0x4c, 0x4d, 0x53, 0x53, 0x50, 0x00, 0x01, 0x00, 0x00,
		0x00, 0x07, 0x82, 0x08, 0xa2, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x05, 0x02, 0xce,
		0x0e, 0x00, 0x00, 0x00, 0x0f, 0x00, 0x57, 0x00, 0x69, 0x00, 0x6e, 0x00,
		0x64, 0x00, 0x6f, 0x00, 0x77, 0x00, 0x73, 0x00, 0x20, 0x00, 0x53, 0x00,
		0x65, 0x00, 0x72, 0x00, 0x76, 0x00, 0x65, 0x00, 0x72, 0x00, 0x20, 0x00,
		0x32, 0x00, 0x30, 0x00, 0x30, 0x00, 0x33, 0x00, 0x20, 0x00, 0x33, 0x00,
		0x37, 0x00, 0x39, 0x00, 0x30, 0x00, 0x20, 0x00, 0x53, 0x00, 0x65, 0x00,
		0x72, 0x00, 0x76, 0x00, 0x69, 0x00, 0x63, 0x00, 0x65, 0x00, 0x20, 0x00,
		0x50, 0x00, 0x61, 0x00, 0x63, 0x00, 0x6b, 0x00, 0x20, 0x00, 0x32, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x57, 0x00, 0x69, 0x00, 0x6e, 0x00, 0x64, 0x00,
		0x6f, 0x00, 0x77, 0x00, 0x73, 0x00, 0x20, 0x00, 0x53, 0x00, 0x65, 0x00,
		0x72, 0x00, 0x76, 0x00, 0x65, 0x00, 0x72, 0x00, 0x20, 0x00, 0x32, 0x00,
		0x30, 0x00, 0x30, 0x00, 0x33, 0x00, 0x20, 0x00, 0x35, 0x00, 0x2e, 0x00,
		0x32, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
)

func buildNBSTATQuery() []byte {
	q := []byte("ff\x00\x00\x00\x01\x00\x00\x00\x00\x00\x00 ")
	q = append(q, "CK"+strings.Repeat("A", 30)...)

	// NBSTAT type, IN class
	return append(q, 0x00, 0x00, 0x21, 0x00, 0x01)
}

// nbstatNames holds the unique names and the group of a node status reply.
type nbstatNames struct {
	Unique []string
	Group  string
}

func parseNBSTAT(reply []byte) (nbstatNames, error) {
	var names nbstatNames

	if len(reply) <= nbstatAnswerCountOffset {
		return names, errShortNBSTATReply
	}

	count := int(reply[nbstatAnswerCountOffset])
	data := reply[nbstatAnswersOffset:]

	for i := 0; i < count; i++ {
		entry := i * nbstatEntryLen
		if entry+nbstatEntryLen > len(data) {
			break
		}

		// a non-zero suffix byte marks a service name, not a host name
		if data[entry+nbstatNameLen] != 0x00 {
			continue
		}

		name := strings.TrimSpace(validString(data[entry : entry+nbstatNameLen]))

		if data[entry+nbstatNameLen+1] >= nbstatGroupFlag {
			names.Group = name
		} else {
			names.Unique = append(names.Unique, name)
		}
	}

	return names, nil
}

// encodeNetBIOSName applies first-level encoding to name padded to 16 bytes.
func encodeNetBIOSName(name string) []byte {
	padded := name
	if len(padded) < 16 {
		padded += strings.Repeat(" ", 16-len(padded))
	}

	out := make([]byte, 0, len(padded)*2)
	for i := 0; i < len(padded); i++ {
		c := padded[i]
		out = append(out, 'A'+(c>>4), 'A'+(c&0x0f))
	}

	return out
}

func nbssSessionRequest(calledName string) []byte {
	req := []byte{0x81, 0x00, 0x00, 0x44, 0x20}
	req = append(req, encodeNetBIOSName(calledName)...)
	req = append(req, 0x00)

	return append(req, nbssCallingName...)
}

// readNBSSFrame reads one session service frame, header included.
func readNBSSFrame(r io.Reader) ([]byte, error) {
	header := make([]byte, nbssHeaderLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	size := int(header[1]&0x01)<<16 | int(header[2])<<8 | int(header[3])
	if size > nbssMaxFrameLen {
		size = nbssMaxFrameLen
	}

	frame := make([]byte, nbssHeaderLen+size)
	copy(frame, header)

	n, err := io.ReadFull(r, frame[nbssHeaderLen:])
	if err != nil && n == 0 && size > 0 {
		return nil, err
	}

	frame = frame[:nbssHeaderLen+n]
	if len(frame) > smbReadLimit {
		frame = frame[:smbReadLimit]
	}

	return frame, nil
}

// parseSessionSetup extracts OS version strings and NTLM challenge details
// from an SMB session setup reply.
func parseSessionSetup(reply []byte) (map[string]interface{}, error) {
	fields := make(map[string]interface{})

	if len(reply) <= smbBlobOffset {
		return fields, errShortSMBReply
	}

	blobLen := int(binary.LittleEndian.Uint16(reply[smbBlobLengthOffset:]))

	if start := smbBlobOffset + blobLen; start < len(reply) {
		if versions := splitOSVersions(reply[start:]); len(versions) > 0 {
			fields["version"] = versions
		}
	}

	start := bytes.Index(reply, ntlmSignature)
	if start < 0 {
		return fields, errNoNTLMSSP
	}

	if start+ntlmRevisionOffset >= len(reply) {
		return fields, errShortSMBReply
	}

	infoLen := int(binary.LittleEndian.Uint16(reply[start+ntlmTargetInfoLenOffset:]))
	infoOffset := int(reply[start+ntlmTargetInfoOffsetOffset])

	fields["major"] = int(reply[start+ntlmMajorOffset])
	fields["minor"] = int(reply[start+ntlmMinorOffset])
	fields["build"] = int(binary.LittleEndian.Uint16(reply[start+ntlmBuildOffset:]))
	fields["ntlm_revision"] = int(reply[start+ntlmRevisionOffset])

	parseAVPairs(reply, start+infoOffset, start+infoOffset+infoLen, fields)

	return fields, nil
}

func parseAVPairs(reply []byte, index, end int, fields map[string]interface{}) {
	for index < end && index+avPairHeaderLen <= len(reply) {
		avID := binary.LittleEndian.Uint16(reply[index:])
		avLen := int(binary.LittleEndian.Uint16(reply[index+2:]))

		if avID == avEOL {
			return
		}

		contentEnd := min(index+avPairHeaderLen+avLen, len(reply))
		content := reply[index+avPairHeaderLen : contentEnd]

		switch {
		case avID == avTimestamp && len(content) == 8:
			fields["system_time"] = filetimeToTime(binary.LittleEndian.Uint64(content))
		case avPairFields[avID] != "":
			fields[avPairFields[avID]] = validString(bytes.ReplaceAll(content, []byte{0x00}, nil))
		}

		index += avPairHeaderLen + avLen
	}
}

// splitOSVersions turns the UTF-16 native OS and LAN manager strings into
// plain strings. Empty entries are dropped.
func splitOSVersions(raw []byte) []string {
	joined := bytes.ReplaceAll(raw, []byte{0x00, 0x00}, []byte("|"))
	joined = bytes.ReplaceAll(joined, []byte{0x00}, nil)

	var versions []string

	for _, v := range strings.Split(validString(joined), "|") {
		if v != "" {
			versions = append(versions, v)
		}
	}

	return versions
}

func filetimeToTime(ft uint64) time.Time {
	intervals := int64(ft) - filetimeUnixEpoch

	return time.Unix(0, intervals*100).UTC()
}

func validString(b []byte) string {
	return strings.ToValidUTF8(string(b), "")
}
