package mft

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/deploymenttheory/go-ntfs-recovery/internal/types"
)

// ExtractFileName decodes the first $FILE_NAME attribute of the record.
// Only resident $FILE_NAME values are supported; a non-resident one yields types.ErrNotFound.
func ExtractFileName(buf []byte, header types.FileRecordHeader) (types.FileName, error) {
	attr, err := FindAttribute(buf, header, types.AttributeFileName)
	if err != nil {
		return types.FileName{}, fmt.Errorf("$FILE_NAME: %w", err)
	}
	if attr.NonResident {
		return types.FileName{}, fmt.Errorf("non-resident $FILE_NAME: %w", types.ErrNotFound)
	}
	return decodeFileNameValue(buf, attr.ValueStart())
}

func decodeFileNameValue(buf []byte, valueStart int) (types.FileName, error) {
	if valueStart+types.FileNameMinimumValueLength > len(buf) {
		return types.FileName{}, fmt.Errorf("$FILE_NAME header at %d: %w", valueStart, types.ErrTruncated)
	}

	nameLength := int(buf[valueStart+types.FileNameLengthOffset])
	nameStart := valueStart + types.FileNameCharactersOffset
	nameEnd := nameStart + 2*nameLength
	if nameEnd > len(buf) {
		return types.FileName{}, fmt.Errorf("$FILE_NAME of %d characters: %w", nameLength, types.ErrTruncated)
	}

	name, err := decodeUTF16LE(buf[nameStart:nameEnd])
	if err != nil {
		return types.FileName{}, fmt.Errorf("decoding $FILE_NAME: %w", err)
	}

	le := binary.LittleEndian
	return types.FileName{
		Name:      name,
		Namespace: types.FileNameNamespace(buf[valueStart+types.FileNameNamespaceOffset]),
		Parent:    types.FileReference(le.Uint64(buf[valueStart+types.FileNameParentOffset:])),
		Created:   types.FileTime(le.Uint64(buf[valueStart+types.FileNameCreatedOffset:])),
		Modified:  types.FileTime(le.Uint64(buf[valueStart+types.FileNameModifiedOffset:])),
	}, nil
}

// decodeUTF16LE converts NTFS name characters into a Go string. Unpaired surrogates,
// which NTFS allows, become U+FFFD.
func decodeUTF16LE(raw []byte) (string, error) {
	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
