/*
 * Copyright (c) 2026, NVIDIA CORPORATION.  All rights reserved.
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

// Package testutil provides shared test helpers and session fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteSession writes content as ec2deploy.yaml into a directory removed
// when the test ends, and returns its path.
func WriteSession(t testing.TB, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ec2deploy.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write session %s: %v", path, err)
	}
	return path
}

// UnsetEnv removes keys from the environment for the duration of the test.
// The session loader lets AWS_REGION and EC2DEPLOY_* variables win over the
// file, so tests reading a file clear them first.
func UnsetEnv(t testing.TB, keys ...string) {
	t.Helper()
	for _, key := range keys {
		original, existed := os.LookupEnv(key)
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset env %s: %v", key, err)
		}
		if existed {
			t.Cleanup(func() {
				os.Setenv(key, original) // nolint:errcheck
			})
		}
	}
}
