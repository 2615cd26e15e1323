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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nbstatEntry(name string, suffix, flags byte) []byte {
	entry := []byte(name + strings.Repeat(" ", nbstatNameLen-len(name)))

	return append(entry, suffix, flags, 0x00)
}

func TestParseNBSTAT(t *testing.T) {
	reply := make([]byte, nbstatAnswersOffset)
	reply[nbstatAnswerCountOffset] = 4

	reply = append(reply, nbstatEntry("PRINTSRV", 0x00, 0x04)...)
	reply = append(reply, nbstatEntry("WORKGROUP", 0x00, 0x84)...)
	reply = append(reply, nbstatEntry("PRINTSRV", 0x20, 0x04)...)
	// the fourth entry is truncated
	reply = append(reply, 'X')

	names, err := parseNBSTAT(reply)
	require.NoError(t, err)
	assert.Equal(t, []string{"PRINTSRV"}, names.Unique)
	assert.Equal(t, "WORKGROUP", names.Group)

	_, err = parseNBSTAT(reply[:20])
	require.ErrorIs(t, err, errShortNBSTATReply)
}

func TestNBSTATQuery(t *testing.T) {
	assert.Len(t, nbstatQuery, 50)
	assert.True(t, bytes.HasSuffix(nbstatQuery, []byte{0x00, 0x00, 0x21, 0x00, 0x01}))
}

func TestEncodeNetBIOSName(t *testing.T) {
	assert.Equal(t, "EB"+strings.Repeat("CA", 15), string(encodeNetBIOSName("A")))

	req := nbssSessionRequest("PRINTSRV")
	assert.Equal(t, byte(0x81), req[0])
	assert.Len(t, req, 5+32+1+len(nbssCallingName))
}

func TestReadNBSSFrame(t *testing.T) {
	frame, err := readNBSSFrame(bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x03, 'a', 'b', 'c', 'd'}))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x03, 'a', 'b', 'c'}, frame)

	_, err = readNBSSFrame(bytes.NewReader([]byte{0x00, 0x00}))
	require.Error(t, err)
}

func utf16z(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		out = append(out, s[i], 0x00)
	}

	return out
}

func avPair(id uint16, content []byte) []byte {
	out := binary.LittleEndian.AppendUint16(nil, id)
	out = binary.LittleEndian.AppendUint16(out, uint16(len(content)))

	return append(out, content...)
}

func TestParseSessionSetup(t *testing.T) {
	systemTime := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	filetime := uint64(systemTime.Unix())*10_000_000 + filetimeUnixEpoch

	var info []byte
	info = append(info, avPair(0x0001, utf16z("PRINTSRV"))...)
	info = append(info, avPair(0x0004, utf16z("corp.example"))...)
	info = append(info, avPair(avTimestamp, binary.LittleEndian.AppendUint64(nil, filetime))...)
	info = append(info, avPair(avEOL, nil)...)

	challenge := make([]byte, 56)
	copy(challenge, "NTLMSSP\x00")
	binary.LittleEndian.PutUint16(challenge[ntlmTargetInfoLenOffset:], uint16(len(info)))
	challenge[ntlmTargetInfoOffsetOffset] = 56
	challenge[ntlmMajorOffset] = 10
	challenge[ntlmMinorOffset] = 0
	binary.LittleEndian.PutUint16(challenge[ntlmBuildOffset:], 19041)
	challenge[ntlmRevisionOffset] = 15

	blob := append(challenge, info...)

	reply := make([]byte, smbBlobOffset)
	binary.LittleEndian.PutUint16(reply[smbBlobLengthOffset:], uint16(len(blob)))
	reply = append(reply, blob...)
	reply = append(reply, utf16z("Windows 10 Pro")...)
	reply = append(reply, 0x00, 0x00)
	reply = append(reply, utf16z("Windows 10 Pro 6.3")...)
	reply = append(reply, 0x00, 0x00)

	fields, err := parseSessionSetup(reply)
	require.NoError(t, err)

	assert.Equal(t, []string{"Windows 10 Pro", "Windows 10 Pro 6.3"}, fields["version"])
	assert.Equal(t, 10, fields["major"])
	assert.Equal(t, 0, fields["minor"])
	assert.Equal(t, 19041, fields["build"])
	assert.Equal(t, 15, fields["ntlm_revision"])
	assert.Equal(t, "PRINTSRV", fields["netbios_computer_name"])
	assert.Equal(t, "corp.example", fields["dns_domain_name"])
	assert.True(t, systemTime.Equal(fields["system_time"].(time.Time)))

	_, err = parseSessionSetup(reply[:30])
	require.ErrorIs(t, err, errShortSMBReply)

	noNTLM := make([]byte, smbBlobOffset+4)
	_, err = parseSessionSetup(noNTLM)
	require.ErrorIs(t, err, errNoNTLMSSP)
}
