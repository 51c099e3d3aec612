// Copyright 2025 RabbitHQ, Inc.
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package features

import (
	"bytes"
	"strconv"
)

// Count is the width of the feature vector the classifier consumes.
const Count = 38

// names lists the feature columns in the order the model was trained
// on. The tensor layout depends on this order; never reorder.
var names = [Count]string{
	"NA", "NT", "NOR", "ORR",
	"DCA_mean", "DCA_median", "DCA_std", "DCA_gini",
	"NAR_mean", "NAR_median", "NAR_gini", "NAR_IQR",
	"NTR_mean", "NTR_median", "NTR_std", "NTR_gini",
	"NCAR_mean", "NCAR_std", "NCAR_IQR",
	"DCAR_mean", "DCAR_median", "DCAR_std", "DCAR_IQR",
	"DAAR_mean", "DAAR_median", "DAAR_std", "DAAR_gini", "DAAR_IQR",
	"DCAT_mean", "DCAT_median", "DCAT_std", "DCAT_gini", "DCAT_IQR",
	"NAT_mean", "NAT_median", "NAT_std", "NAT_gini", "NAT_IQR",
}

// The first three columns (NA, NT, NOR) are integer-valued and are
// formatted without a fractional part.
const integerColumns = 3

// Names returns the feature column names in vector order.
func Names() []string {
	out := make([]string, Count)
	copy(out, names[:])
	return out
}

// Row is one contributor's feature vector, values rounded to three
// decimals and ordered as in Names.
type Row struct {
	Login  string
	Values [Count]float64
}

// Vector returns the values in the float32 layout the model expects.
func (r *Row) Vector() []float32 {
	out := make([]float32, Count)
	for i, v := range r.Values {
		out[i] = float32(v)
	}
	return out
}

// Fields formats every value for tabular output.
func (r *Row) Fields() []string {
	out := make([]string, Count)
	for i, v := range r.Values {
		out[i] = formatValue(i, v)
	}
	return out
}

// MarshalJSON emits the row as an object keyed by column name in
// vector order, with the integer columns as JSON integers.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(name))
		buf.WriteByte(':')
		buf.WriteString(formatValue(i, r.Values[i]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func formatValue(col int, v float64) string {
	if col < integerColumns {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
