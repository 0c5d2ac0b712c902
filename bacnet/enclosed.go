// Copyright 2025 Edgeo SCADA
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

package bacnet

import (
	"fmt"
)

// EnclosedDataLength returns the number of octets between the opening tag
// at the start of data and its matching closing tag. Nested pairs with the
// same tag number are matched by counting; nothing is decoded.
func (d *Decoder) EnclosedDataLength(data []byte) (int, error) {
	c := d.newCursor(data, PropertyAll)
	tag, err := c.ReadTag()
	if err != nil {
		return 0, err
	}
	if !tag.Opening {
		return 0, fmt.Errorf("%w: %s where an opening tag was expected", ErrMalformed, tag)
	}
	start := c.pos
	if err := c.skipEnclosed(tag.Number); err != nil {
		return 0, err
	}
	return c.pos - start - len(EncodeClosingTag(tag.Number)), nil
}

// EnclosedDataLength returns the number of octets enclosed by the opening
// tag at the start of data
func EnclosedDataLength(data []byte) (int, error) {
	return defaultDecoder.EnclosedDataLength(data)
}
