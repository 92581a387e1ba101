package expr

import (
	"encoding/binary"

	"github.com/segmentio/fasthash/fnv1a"
	"github.com/zeebo/blake3"
	"lukechampine.com/uint128"
)

// Hash returns a structural 64-bit hash of e. Terms that are Equal hash alike.
func Hash[E Expression[E]](e E) uint64 {
	h := fnv1a.Init64
	work := []E{e}
	for len(work) > 0 {
		k := work[len(work)-1].Kind()
		work = work[:len(work)-1]
		h = fnv1a.AddUint64(h, uint64(k.Tag))
		switch k.Tag {
		case TagVar:
			h = fnv1a.AddUint64(h, uint64(len(k.Symbol)))
			h = fnv1a.AddString64(h, string(k.Symbol))
		case TagApp:
			work = append(work, k.Arg, k.Fun)
		case TagLam:
			h = fnv1a.AddUint64(h, uint64(len(k.Symbol)))
			h = fnv1a.AddString64(h, string(k.Symbol))
			work = append(work, k.Body)
		}
	}
	return h
}

// Fingerprint digests the preorder serialization of e with blake3 and keeps
// the first 128 bits. It is used where a 64-bit hash collides too easily to
// serve as a key on its own.
func Fingerprint[E Expression[E]](e E) uint128.Uint128 {
	h := blake3.New()
	var buf [binary.MaxVarintLen64 + 1]byte
	work := []E{e}
	for len(work) > 0 {
		k := work[len(work)-1].Kind()
		work = work[:len(work)-1]
		buf[0] = byte(k.Tag)
		n := 1
		if k.Tag != TagApp {
			n += binary.PutUvarint(buf[1:], uint64(len(k.Symbol)))
		}
		h.Write(buf[:n])
		switch k.Tag {
		case TagVar:
			h.Write([]byte(k.Symbol))
		case TagApp:
			work = append(work, k.Arg, k.Fun)
		case TagLam:
			h.Write([]byte(k.Symbol))
			work = append(work, k.Body)
		}
	}
	return uint128.FromBytes(h.Sum(nil)[:16])
}
