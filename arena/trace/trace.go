// Package trace reads allocation traces and replays them against an
// allocator while verifying every payload it hands out.
//
// A trace starts with four integers: the suggested heap size, the number of
// distinct ids, the number of operations, and a weight. Each following line
// is one operation:
//
//	a <id> <bytes>   allocate bytes and bind the result to id
//	r <id> <bytes>   reallocate the payload bound to id
//	f <id>           free the payload bound to id
//
// Blank lines and lines starting with '#' are ignored.
package trace

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bytedance/gopkg/lang/mcache"

	"github.com/joshuapare/arenakit/internal/mmfile"
)

const (
	scanBufSize = 64 << 10
	maxLineSize = 1 << 20

	// MaxIDs bounds the id count a trace header may declare. Per-id state is
	// allocated up front, so the header value must not be trusted blindly.
	MaxIDs = 1 << 24
)

// OpKind identifies a trace operation.
type OpKind byte

const (
	OpAlloc   OpKind = 'a'
	OpRealloc OpKind = 'r'
	OpFree    OpKind = 'f'
)

func (k OpKind) String() string {
	switch k {
	case OpAlloc:
		return "alloc"
	case OpRealloc:
		return "realloc"
	case OpFree:
		return "free"
	default:
		return fmt.Sprintf("OpKind(%q)", byte(k))
	}
}

// Op is one trace operation.
type Op struct {
	Kind OpKind
	ID   int
	Size uint64 // unused for OpFree
	Line int    // source line, 1-based
}

func (o Op) String() string {
	if o.Kind == OpFree {
		return fmt.Sprintf("%c %d", byte(o.Kind), o.ID)
	}
	return fmt.Sprintf("%c %d %d", byte(o.Kind), o.ID, o.Size)
}

// Trace is a parsed allocation trace.
type Trace struct {
	Name          string
	SuggestedHeap int
	NumIDs        int
	Weight        int
	Ops           []Op
}

// Load parses the trace file at path.
func Load(path string) (*Trace, error) {
	data, release, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("trace: open %s: %w", path, err)
	}
	defer release()

	t, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Name = path
	return t, nil
}

// Parse reads a trace from r. Ids are validated against the header and
// against their allocation state: an id must be free before 'a' and
// allocated before 'f'. 'r' on a free id behaves as an allocation.
func Parse(r io.Reader) (*Trace, error) {
	buf := mcache.Malloc(scanBufSize)
	defer mcache.Free(buf)

	sc := bufio.NewScanner(r)
	sc.Buffer(buf, maxLineSize)

	var (
		t      Trace
		header []int
		numOps int
		live   []bool
		line   int
	)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}

		if len(header) < 4 {
			for _, field := range strings.Fields(text) {
				if len(header) == 4 {
					return nil, parseErrorf(line, ErrSyntax, "unexpected %q after header", field)
				}
				n, err := strconv.Atoi(field)
				if err != nil || n < 0 {
					return nil, parseErrorf(line, ErrSyntax, "header value %q is not a non-negative integer", field)
				}
				header = append(header, n)
			}
			if len(header) == 4 {
				t.SuggestedHeap, t.NumIDs, numOps, t.Weight = header[0], header[1], header[2], header[3]
				if t.NumIDs > MaxIDs {
					return nil, parseErrorf(line, ErrSyntax, "id count %d exceeds %d", t.NumIDs, MaxIDs)
				}
				live = make([]bool, t.NumIDs)
				t.Ops = make([]Op, 0, min(numOps, 1<<20))
			}
			continue
		}

		op, err := parseOp(text, line)
		if err != nil {
			return nil, err
		}
		if op.ID >= t.NumIDs {
			return nil, parseErrorf(line, ErrBadID, "id %d out of range [0, %d)", op.ID, t.NumIDs)
		}
		switch op.Kind {
		case OpAlloc:
			if live[op.ID] {
				return nil, parseErrorf(line, ErrBadID, "id %d allocated twice", op.ID)
			}
			live[op.ID] = true
		case OpRealloc:
			live[op.ID] = op.Size != 0
		case OpFree:
			if !live[op.ID] {
				return nil, parseErrorf(line, ErrBadID, "free of unallocated id %d", op.ID)
			}
			live[op.ID] = false
		}
		if len(t.Ops) == numOps {
			return nil, parseErrorf(line, ErrCount, "more than %d operations", numOps)
		}
		t.Ops = append(t.Ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{Line: line, Err: err}
	}

	if len(header) < 4 {
		return nil, parseErrorf(line, ErrSyntax, "truncated header: %d of 4 values", len(header))
	}
	if len(t.Ops) != numOps {
		return nil, parseErrorf(line, ErrCount, "header declares %d operations, found %d", numOps, len(t.Ops))
	}
	return &t, nil
}

func parseOp(text string, line int) (Op, error) {
	fields := strings.Fields(text)
	if len(fields[0]) != 1 {
		return Op{}, parseErrorf(line, ErrSyntax, "unknown operation %q", fields[0])
	}
	op := Op{Kind: OpKind(fields[0][0]), Line: line}

	want := 3
	switch op.Kind {
	case OpAlloc, OpRealloc:
	case OpFree:
		want = 2
	default:
		return Op{}, parseErrorf(line, ErrSyntax, "unknown operation %q", fields[0])
	}
	if len(fields) != want {
		return Op{}, parseErrorf(line, ErrSyntax, "%s takes %d operands, got %d", op.Kind, want-1, len(fields)-1)
	}

	id, err := strconv.Atoi(fields[1])
	if err != nil || id < 0 {
		return Op{}, parseErrorf(line, ErrBadID, "invalid id %q", fields[1])
	}
	op.ID = id

	if want == 3 {
		size, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return Op{}, parseErrorf(line, ErrSyntax, "invalid size %q", fields[2])
		}
		op.Size = size
	}
	return op, nil
}
