// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

import (
	"bytes"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestPerfStatsLog(t *testing.T) {
	var (
		buf   bytes.Buffer
		out   = log.StandardLogger().Out
		level = log.GetLevel()
	)
	//
	log.SetOutput(&buf)
	log.SetLevel(log.DebugLevel)
	//
	defer func() {
		log.SetOutput(out)
		log.SetLevel(level)
	}()
	//
	NewPerfStats().Log("parsing")
	//
	assert.Contains(t, buf.String(), "parsing complete")
	assert.Contains(t, buf.String(), "alloc_mib")
}
