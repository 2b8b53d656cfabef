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

package defaults

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		{"ProbeTimeout", ProbeTimeout, 5 * time.Second, 5 * time.Minute},
		{"ProbeKillGrace", ProbeKillGrace, 100 * time.Millisecond, 10 * time.Second},
		{"UnitTimeout", UnitTimeout, 1 * time.Second, 60 * time.Second},
		{"RunTimeout", RunTimeout, 1 * time.Minute, 2 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestProbeTimeoutLessThanRun(t *testing.T) {
	if ProbeTimeout >= RunTimeout {
		t.Errorf("ProbeTimeout (%v) should be less than RunTimeout (%v)", ProbeTimeout, RunTimeout)
	}
}

func TestLimits(t *testing.T) {
	if ProbeOutputLimit <= 0 {
		t.Errorf("ProbeOutputLimit must be positive, got %d", ProbeOutputLimit)
	}
	if DirectoryOutputLimit < ProbeOutputLimit {
		t.Errorf("DirectoryOutputLimit (%d) should not be below ProbeOutputLimit (%d)",
			DirectoryOutputLimit, ProbeOutputLimit)
	}
	if Parallelism < 1 {
		t.Errorf("Parallelism must be at least 1, got %d", Parallelism)
	}
}
