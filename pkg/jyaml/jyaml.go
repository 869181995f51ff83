/*
 * Copyright (c) 2023, NVIDIA CORPORATION.  All rights reserved.
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

// Package jyaml decodes YAML or JSON documents, or already-parsed settings
// maps, into typed objects using their JSON tags.
package jyaml

import (
	"fmt"

	"sigs.k8s.io/yaml"
)

// Unmarshal converts object into T. Strings and byte slices are parsed as
// YAML (JSON is valid YAML); any other value, for example a settings map,
// is round-tripped through YAML first.
func Unmarshal[T any](object any) (T, error) {
	return unmarshal[T](object, func(data []byte, v any) error {
		return yaml.Unmarshal(data, v)
	})
}

// UnmarshalStrict behaves like Unmarshal but rejects unknown fields.
func UnmarshalStrict[T any](object any) (T, error) {
	return unmarshal[T](object, func(data []byte, v any) error {
		return yaml.UnmarshalStrict(data, v)
	})
}

func unmarshal[T any](object any, decode func([]byte, any) error) (T, error) {
	var zero T

	var data []byte
	switch v := object.(type) {
	case T:
		return v, nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		marshaled, err := yaml.Marshal(object)
		if err != nil {
			return zero, fmt.Errorf("error re-encoding %T: %w", object, err)
		}
		data = marshaled
	}

	var result T
	if err := decode(data, &result); err != nil {
		return zero, err
	}
	return result, nil
}
