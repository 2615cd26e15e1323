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

package scan

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerateSubnet(t *testing.T) {
	tests := []struct {
		name    string
		address string
		prefix  int
		want    []string
	}{
		{
			name:    "slash 30",
			address: "10.0.0.0",
			prefix:  30,
			want:    []string{"10.0.0.1", "10.0.0.2"},
		},
		{
			name:    "host bits are masked",
			address: "192.168.1.77",
			prefix:  29,
			want: []string{
				"192.168.1.73", "192.168.1.74", "192.168.1.75",
				"192.168.1.76", "192.168.1.77", "192.168.1.78",
			},
		},
		{
			name:    "slash 31 keeps both addresses",
			address: "10.1.1.0",
			prefix:  31,
			want:    []string{"10.1.1.0", "10.1.1.1"},
		},
		{
			name:    "slash 32 is the single address",
			address: "10.1.1.9",
			prefix:  32,
			want:    []string{"10.1.1.9"},
		},
		{
			name:    "crosses an octet boundary",
			address: "172.16.0.0",
			prefix:  23,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EnumerateSubnet(tt.address, tt.prefix)
			require.NoError(t, err)

			if tt.want != nil {
				assert.Equal(t, tt.want, got)
				return
			}

			require.Len(t, got, 510)
			assert.Equal(t, "172.16.0.1", got[0])
			assert.Equal(t, "172.16.0.255", got[254])
			assert.Equal(t, "172.16.1.0", got[255])
			assert.Equal(t, "172.16.1.254", got[509])
		})
	}
}

func TestEnumerateSubnetCountAndOrder(t *testing.T) {
	for prefix := 14; prefix <= 30; prefix++ {
		t.Run(fmt.Sprintf("/%d", prefix), func(t *testing.T) {
			got, err := EnumerateSubnet("10.64.0.0", prefix)
			require.NoError(t, err)

			require.Len(t, got, (1<<(32-prefix))-2)

			_, ipnet, err := net.ParseCIDR(fmt.Sprintf("10.64.0.0/%d", prefix))
			require.NoError(t, err)

			prev := uint32(0)

			for i, addr := range got {
				ip := net.ParseIP(addr).To4()
				require.NotNil(t, ip)
				require.True(t, ipnet.Contains(ip))

				n := uint32(ip[0])<<24 | uint32(ip[1])<<16 | uint32(ip[2])<<8 | uint32(ip[3])
				if i > 0 {
					require.Equal(t, prev+1, n)
				}

				prev = n
			}

			assert.NotEqual(t, ipnet.IP.String(), got[0])
		})
	}
}

func TestEnumerateSubnetErrors(t *testing.T) {
	_, err := EnumerateSubnet("10.0.0.0", 33)
	require.ErrorIs(t, err, ErrInvalidPrefix)

	_, err = EnumerateSubnet("not-an-ip", 24)
	require.ErrorIs(t, err, ErrNotIPv4)

	_, err = EnumerateSubnet("2001:db8::", 64)
	require.ErrorIs(t, err, ErrNotIPv4)

	_, err = EnumerateSubnet("2001:db8::", 129)
	require.ErrorIs(t, err, ErrNotIPv4)

	_, err = EnumerateSubnet("10.0.0.0", -1)
	require.ErrorIs(t, err, ErrInvalidPrefix)

	for _, prefix := range []int{0, 1, 7} {
		_, err = EnumerateSubnet("10.0.0.0", prefix)
		require.ErrorIs(t, err, ErrSubnetTooLarge)
	}

	_, err = ExpandCIDR("0.0.0.0/0")
	require.ErrorIs(t, err, ErrSubnetTooLarge)

	_, err = ExpandCIDR("10.0.0.0/abc")
	require.ErrorIs(t, err, ErrInvalidSubnet)
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("10.0.0.0", 24, "10.0.0.200"))
	assert.False(t, Contains("10.0.0.0", 24, "10.0.1.1"))
	assert.False(t, Contains("10.0.0.0", 24, "bogus"))
}
