// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package version

import (
	"testing"
)

// FuzzParse checks that Parse never panics and that String round-trips.
func FuzzParse(f *testing.F) {
	for _, seed := range []string{
		"1", "v1", "v1.2", "1.2.3", "0.0.0", "", ".", "1.", ".1", "1..2",
		"v", "vv1", "-1", "1.-2", "+1", "1.2.3.4", "  v1.2 ", "1. 2",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		v, err := Parse(input)
		if err != nil {
			return
		}

		if v.Precision < 1 || v.Precision > 3 {
			t.Errorf("Parse(%q) precision %d", input, v.Precision)
		}
		if v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
			t.Errorf("Parse(%q) negative component: %+v", input, v)
		}

		v2, err := Parse(v.String())
		if err != nil {
			t.Errorf("re-parsing %q (from %q): %v", v.String(), input, err)
		} else if v != v2 {
			t.Errorf("round trip mismatch for %q: %+v != %+v", input, v, v2)
		}
		if v.Compare(v2) != 0 {
			t.Errorf("Compare(%q, itself) != 0", input)
		}
	})
}
