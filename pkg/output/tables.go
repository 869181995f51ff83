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

package output

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vdt-tools/ec2deploy/pkg/locator"
)

// Table is a plain column/row table.
type Table struct {
	Columns []string
	Values  [][]string
}

// NewTable creates a table from columns and rows.
func NewTable(columns []string, rows [][]string) *Table {
	return &Table{Columns: columns, Values: rows}
}

func (t *Table) Headers() []string { return t.Columns }
func (t *Table) Rows() [][]string  { return t.Values }

// InstanceTable renders instances for the status command. Detailed adds
// the type, addresses, role and age.
type InstanceTable struct {
	Instances []locator.Instance
	Detailed  bool
	// Now is the reference for ages. Defaults to time.Now.
	Now func() time.Time
}

func (t *InstanceTable) Headers() []string {
	if t.Detailed {
		return []string{"NAME", "ID", "STATE", "DNS", "TYPE", "ROLE", "PUBLIC IP", "PRIVATE IP", "AGE"}
	}
	return []string{"NAME", "ID", "STATE", "DNS"}
}

func (t *InstanceTable) Rows() [][]string {
	now := time.Now()
	if t.Now != nil {
		now = t.Now()
	}

	rows := make([][]string, 0, len(t.Instances))
	for _, i := range t.Instances {
		row := []string{i.Name, i.ID, i.State, i.PublicDNS}
		if t.Detailed {
			row = append(row, i.Type, i.Role, i.PublicIP, i.PrivateIP, age(i.LaunchTime, now))
		}
		rows = append(rows, row)
	}
	return rows
}

func age(launched, now time.Time) string {
	if launched.IsZero() {
		return "-"
	}
	return humanize.RelTime(launched, now, "ago", "from now")
}

// KeyPairTable renders key pairs.
type KeyPairTable []locator.KeyPair

func (t KeyPairTable) Headers() []string { return []string{"NAME", "ID", "FINGERPRINT"} }

func (t KeyPairTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, k := range t {
		rows = append(rows, []string{k.Name, k.ID, k.Fingerprint})
	}
	return rows
}

// AddressTable renders elastic IPs.
type AddressTable []locator.ElasticAddress

func (t AddressTable) Headers() []string {
	return []string{"PUBLIC IP", "ALLOCATION", "INSTANCE", "DOMAIN"}
}

func (t AddressTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, a := range t {
		rows = append(rows, []string{a.PublicIP, a.ID, a.InstanceID, a.Domain})
	}
	return rows
}

// PortForwardTable renders forwarding rules.
type PortForwardTable []locator.PortForwardRule

func (t PortForwardTable) Headers() []string {
	return []string{"ID", "ADDRESS", "INSTANCE", "PUBLIC PORT", "PRIVATE PORT", "PROTOCOL"}
}

func (t PortForwardTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{
			r.ID, r.AddressID, r.InstanceID,
			strconv.Itoa(int(r.PublicPort)), strconv.Itoa(int(r.PrivatePort)), r.Protocol,
		})
	}
	return rows
}

// KeyValueTable renders a single result as field/value pairs in insertion
// order.
type KeyValueTable struct {
	pairs [][]string
}

// Add appends a field.
func (t *KeyValueTable) Add(key, value string) *KeyValueTable {
	t.pairs = append(t.pairs, []string{key, value})
	return t
}

func (t *KeyValueTable) Headers() []string { return []string{"FIELD", "VALUE"} }
func (t *KeyValueTable) Rows() [][]string  { return t.pairs }
