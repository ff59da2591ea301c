package utxoindex

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cashtokens/cashtokend/domain/tokenengine/model/externalapi"
	"github.com/pkg/errors"
)

// The index stores UTXO entries in a compact little-endian binary form:
// amount, length-prefixed script, then an optional token section behind a
// presence flag, and within it an optional NFT section behind its own flag.

const (
	hasTokenFlag byte = 1 << 0
	hasNFTFlag   byte = 1 << 1
)

func serializeOutpoint(outpoint *externalapi.DomainOutpoint) []byte {
	serialized := make([]byte, externalapi.TransactionIDSize+4)
	copy(serialized, outpoint.TransactionID.ByteSlice())
	binary.LittleEndian.PutUint32(serialized[externalapi.TransactionIDSize:], outpoint.Index)
	return serialized
}

func serializeUTXOEntry(entry *externalapi.UTXOEntry) ([]byte, error) {
	if entry == nil {
		return nil, errors.New("cannot serialize a nil UTXO entry")
	}

	var buffer bytes.Buffer
	writeUint64(&buffer, entry.Amount)
	writeVarBytes(&buffer, entry.ScriptPublicKey)

	flags := byte(0)
	if entry.Token != nil {
		flags |= hasTokenFlag
		if entry.Token.NFT != nil {
			flags |= hasNFTFlag
		}
	}
	buffer.WriteByte(flags)

	if entry.Token != nil {
		buffer.Write(entry.Token.Category.ByteSlice())
		writeUint64(&buffer, entry.Token.Amount)
		if entry.Token.NFT != nil {
			buffer.WriteByte(byte(entry.Token.NFT.Capability))
			writeVarBytes(&buffer, entry.Token.NFT.Commitment)
		}
	}
	return buffer.Bytes(), nil
}

func deserializeUTXOEntry(serialized []byte) (*externalapi.UTXOEntry, error) {
	reader := bytes.NewReader(serialized)

	amount, err := readUint64(reader)
	if err != nil {
		return nil, err
	}
	scriptPublicKey, err := readVarBytes(reader)
	if err != nil {
		return nil, err
	}
	flags, err := reader.ReadByte()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	entry := &externalapi.UTXOEntry{
		Amount:          amount,
		ScriptPublicKey: scriptPublicKey,
	}
	if flags&hasTokenFlag == 0 {
		return entry, nil
	}

	categoryBytes := make([]byte, externalapi.TokenCategoryIDSize)
	_, err = io.ReadFull(reader, categoryBytes)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	category, err := externalapi.NewTokenCategoryIDFromByteSlice(categoryBytes)
	if err != nil {
		return nil, err
	}
	tokenAmount, err := readUint64(reader)
	if err != nil {
		return nil, err
	}
	entry.Token = &externalapi.TokenData{
		Category: *category,
		Amount:   tokenAmount,
	}
	if flags&hasNFTFlag == 0 {
		return entry, nil
	}

	capabilityByte, err := reader.ReadByte()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	commitment, err := readVarBytes(reader)
	if err != nil {
		return nil, err
	}
	entry.Token.NFT = &externalapi.TokenNFT{
		Capability: externalapi.TokenCapability(capabilityByte),
		Commitment: commitment,
	}
	return entry, nil
}

func writeUint64(buffer *bytes.Buffer, value uint64) {
	var serialized [8]byte
	binary.LittleEndian.PutUint64(serialized[:], value)
	buffer.Write(serialized[:])
}

func readUint64(reader *bytes.Reader) (uint64, error) {
	var serialized [8]byte
	_, err := io.ReadFull(reader, serialized[:])
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return binary.LittleEndian.Uint64(serialized[:]), nil
}

func writeVarBytes(buffer *bytes.Buffer, data []byte) {
	var lengthBytes [2]byte
	binary.LittleEndian.PutUint16(lengthBytes[:], uint16(len(data)))
	buffer.Write(lengthBytes[:])
	buffer.Write(data)
}

func readVarBytes(reader *bytes.Reader) ([]byte, error) {
	var lengthBytes [2]byte
	_, err := io.ReadFull(reader, lengthBytes[:])
	if err != nil {
		return nil, errors.WithStack(err)
	}
	length := binary.LittleEndian.Uint16(lengthBytes[:])
	if length == 0 {
		return nil, nil
	}
	data := make([]byte, length)
	_, err = io.ReadFull(reader, data)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}
