// Copyright 2026 The biomedRelExt Authors
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

package pairing

import "github.com/cryptoradon/biomedRelExt/lib/document"

// WindowSize bounds the number of consecutive sentences considered for
// inter-sentential pairs; pairs are at most WindowSize-1 sentences apart.
const WindowSize = 4

type slot struct {
	sentence int
	mentions []document.Mention
}

// window is a fixed ring of at most WindowSize sentences.
type window struct {
	slots [WindowSize]slot
	head  int
	size  int
}

func (w *window) push(s slot) {
	if w.size == WindowSize {
		panic("pairing: window overflow")
	}
	w.slots[(w.head+w.size)%WindowSize] = s
	w.size++
}

func (w *window) pop() slot {
	if w.size == 0 {
		panic("pairing: pop from empty window")
	}
	s := w.slots[w.head]
	w.slots[w.head] = slot{}
	w.head = (w.head + 1) % WindowSize
	w.size--
	return s
}

func (w *window) at(i int) slot {
	if i < 0 || i >= w.size {
		panic("pairing: window index out of range")
	}
	return w.slots[(w.head+i)%WindowSize]
}

func (w *window) len() int { return w.size }
