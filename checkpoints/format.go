package checkpoints

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"io"
	"strconv"
	"strings"

	"github.com/altcoinj/altcoin/blockchain"
	"github.com/altcoinj/altcoin/util/binaryserializer"
	"github.com/altcoinj/altcoin/util/hashes"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

const (
	// BinaryMagic starts a binary checkpoints file.
	BinaryMagic = "CHECKPOINTS 1"

	// TextMagic is the first line of a text checkpoints file.
	TextMagic = "TXT CHECKPOINTS 1"

	// signatureSize is the size of a signature in a binary checkpoints
	// file. Signatures are skipped when reading.
	signatureSize = 65

	// maxCheckpoints bounds the number of checkpoints a file may declare.
	maxCheckpoints = 1 << 20

	// maxSignatures bounds the number of signatures a file may declare.
	maxSignatures = 256
)

// ErrBadCheckpoints indicates a checkpoints file that could not be parsed.
var ErrBadCheckpoints = errors.New("malformed checkpoints")

// byteOrder is the byte order of the counts in binary checkpoints files.
var byteOrder = binary.BigEndian

func checkCount(count uint32, max uint32, what string) error {
	if count > max {
		return errors.Wrapf(ErrBadCheckpoints, "%d %s exceed the maximum of %d",
			count, what, max)
	}
	return nil
}

// checkOrder requires checkpoints to be sorted by strictly increasing
// height.
func checkOrder(checkpoints []*blockchain.StoredHeader) error {
	for i := 1; i < len(checkpoints); i++ {
		if checkpoints[i].Height <= checkpoints[i-1].Height {
			return errors.Wrapf(ErrBadCheckpoints, "checkpoint at height %d "+
				"follows height %d", checkpoints[i].Height, checkpoints[i-1].Height)
		}
	}
	return nil
}

// WriteBinary writes checkpoints to w in the binary format: the magic, a
// zero signature count, the number of checkpoints and their stored headers.
// It returns the SHA-256 digest of everything following the signature
// count.
func WriteBinary(w io.Writer, checkpoints []*blockchain.StoredHeader) (chainhash.Hash, error) {
	err := checkOrder(checkpoints)
	if err != nil {
		return chainhash.Hash{}, err
	}

	_, err = io.WriteString(w, BinaryMagic)
	if err != nil {
		return chainhash.Hash{}, errors.WithStack(err)
	}
	// Number of signatures.
	err = binaryserializer.PutUint32(w, byteOrder, 0)
	if err != nil {
		return chainhash.Hash{}, err
	}

	digest := hashes.NewHashWriter()
	hashed := io.MultiWriter(w, digest)
	err = binaryserializer.PutUint32(hashed, byteOrder, uint32(len(checkpoints)))
	if err != nil {
		return chainhash.Hash{}, err
	}
	for _, checkpoint := range checkpoints {
		err := checkpoint.Serialize(hashed)
		if err != nil {
			return chainhash.Hash{}, err
		}
	}
	return digest.Finalize(), nil
}

// ReadBinary reads checkpoints in the format written by WriteBinary, and
// returns them with the digest of the checkpoint data.
func ReadBinary(r io.Reader) ([]*blockchain.StoredHeader, chainhash.Hash, error) {
	magic := make([]byte, len(BinaryMagic))
	_, err := io.ReadFull(r, magic)
	if err != nil {
		return nil, chainhash.Hash{}, errors.WithStack(err)
	}
	if string(magic) != BinaryMagic {
		return nil, chainhash.Hash{}, errors.Wrapf(ErrBadCheckpoints,
			"binary checkpoints start with %q", magic)
	}

	signatureCount, err := binaryserializer.Uint32(r, byteOrder)
	if err != nil {
		return nil, chainhash.Hash{}, err
	}
	err = checkCount(signatureCount, maxSignatures, "signatures")
	if err != nil {
		return nil, chainhash.Hash{}, err
	}
	_, err = io.CopyN(io.Discard, r, int64(signatureCount)*signatureSize)
	if err != nil {
		return nil, chainhash.Hash{}, errors.WithStack(err)
	}

	digest := hashes.NewHashWriter()
	hashed := io.TeeReader(r, digest)
	count, err := binaryserializer.Uint32(hashed, byteOrder)
	if err != nil {
		return nil, chainhash.Hash{}, err
	}
	err = checkCount(count, maxCheckpoints, "checkpoints")
	if err != nil {
		return nil, chainhash.Hash{}, err
	}

	checkpoints := make([]*blockchain.StoredHeader, 0, count)
	for i := uint32(0); i < count; i++ {
		checkpoint := &blockchain.StoredHeader{}
		err := checkpoint.Deserialize(hashed)
		if err != nil {
			return nil, chainhash.Hash{}, errors.Wrapf(err, "checkpoint %d", i)
		}
		checkpoints = append(checkpoints, checkpoint)
	}
	err = checkOrder(checkpoints)
	if err != nil {
		return nil, chainhash.Hash{}, err
	}

	dataHash := digest.Finalize()
	log.Debugf("Read %d binary checkpoints with data hash %s", count, dataHash)
	return checkpoints, dataHash, nil
}

// WriteText writes checkpoints to w in the text format: the magic line, a
// zero signature count line, the number of checkpoints and one base64
// encoded stored header per line. It returns the same digest WriteBinary
// would.
func WriteText(w io.Writer, checkpoints []*blockchain.StoredHeader) (chainhash.Hash, error) {
	err := checkOrder(checkpoints)
	if err != nil {
		return chainhash.Hash{}, err
	}

	digest := hashes.NewHashWriter()
	err = binaryserializer.PutUint32(digest, byteOrder, uint32(len(checkpoints)))
	if err != nil {
		return chainhash.Hash{}, err
	}

	var builder strings.Builder
	builder.WriteString(TextMagic + "\n")
	builder.WriteString("0\n") // Number of signatures.
	builder.WriteString(strconv.Itoa(len(checkpoints)) + "\n")
	for _, checkpoint := range checkpoints {
		serialized, err := checkpoint.Bytes()
		if err != nil {
			return chainhash.Hash{}, err
		}
		digest.Write(serialized)
		builder.WriteString(base64.StdEncoding.EncodeToString(serialized) + "\n")
	}

	_, err = io.WriteString(w, builder.String())
	if err != nil {
		return chainhash.Hash{}, errors.WithStack(err)
	}
	return digest.Finalize(), nil
}

type lineReader struct {
	scanner *bufio.Scanner
	line    int
}

func (lr *lineReader) next(what string) (string, error) {
	if !lr.scanner.Scan() {
		if err := lr.scanner.Err(); err != nil {
			return "", errors.WithStack(err)
		}
		return "", errors.Wrapf(ErrBadCheckpoints, "missing %s after line %d",
			what, lr.line)
	}
	lr.line++
	return strings.TrimSpace(lr.scanner.Text()), nil
}

func (lr *lineReader) nextCount(what string, max uint32) (uint32, error) {
	line, err := lr.next(what)
	if err != nil {
		return 0, err
	}
	count, err := strconv.ParseUint(line, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(ErrBadCheckpoints, "line %d: %s", lr.line, err)
	}
	return uint32(count), checkCount(uint32(count), max, what)
}

// ReadText reads checkpoints in the format written by WriteText, and returns
// them with the digest of the checkpoint data.
func ReadText(r io.Reader) ([]*blockchain.StoredHeader, chainhash.Hash, error) {
	lr := &lineReader{scanner: bufio.NewScanner(r)}
	magic, err := lr.next("magic")
	if err != nil {
		return nil, chainhash.Hash{}, err
	}
	if magic != TextMagic {
		return nil, chainhash.Hash{}, errors.Wrapf(ErrBadCheckpoints,
			"text checkpoints start with %q", magic)
	}

	signatureCount, err := lr.nextCount("signatures", maxSignatures)
	if err != nil {
		return nil, chainhash.Hash{}, err
	}
	for i := uint32(0); i < signatureCount; i++ {
		_, err := lr.next("signature")
		if err != nil {
			return nil, chainhash.Hash{}, err
		}
	}

	count, err := lr.nextCount("checkpoints", maxCheckpoints)
	if err != nil {
		return nil, chainhash.Hash{}, err
	}
	digest := hashes.NewHashWriter()
	err = binaryserializer.PutUint32(digest, byteOrder, count)
	if err != nil {
		return nil, chainhash.Hash{}, err
	}

	checkpoints := make([]*blockchain.StoredHeader, 0, count)
	for i := uint32(0); i < count; i++ {
		line, err := lr.next("checkpoint")
		if err != nil {
			return nil, chainhash.Hash{}, err
		}
		serialized, err := base64.StdEncoding.DecodeString(line)
		if err != nil {
			return nil, chainhash.Hash{}, errors.Wrapf(ErrBadCheckpoints,
				"line %d: %s", lr.line, err)
		}
		checkpoint, err := blockchain.StoredHeaderFromBytes(serialized)
		if err != nil {
			return nil, chainhash.Hash{}, errors.Wrapf(ErrBadCheckpoints,
				"line %d: %s", lr.line, err)
		}
		digest.Write(serialized)
		checkpoints = append(checkpoints, checkpoint)
	}
	err = checkOrder(checkpoints)
	if err != nil {
		return nil, chainhash.Hash{}, err
	}

	dataHash := digest.Finalize()
	log.Debugf("Read %d text checkpoints with data hash %s", count, dataHash)
	return checkpoints, dataHash, nil
}

// Read reads checkpoints in either format, telling them apart by their
// magic.
func Read(r io.Reader) ([]*blockchain.StoredHeader, chainhash.Hash, error) {
	buffered := bufio.NewReader(r)
	start, err := buffered.Peek(len(TextMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, chainhash.Hash{}, errors.WithStack(err)
	}
	if bytes.HasPrefix(start, []byte(TextMagic)) {
		return ReadText(buffered)
	}
	return ReadBinary(buffered)
}
