package lib

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime/debug"
)

// BytesToString converts a byte slice to a hexadecimal string.
func BytesToString(b []byte) string { return hex.EncodeToString(b) }

// StringToBytes converts a hexadecimal string back into a byte slice.
func StringToBytes(s string) ([]byte, ErrorI) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrStringToBytes(err)
	}
	return b, nil
}

// HexBytes is a byte slice that marshals to/from JSON as a hex string rather than base64.
type HexBytes []byte

// NewHexBytesFromString converts a hexadecimal string into HexBytes.
func NewHexBytesFromString(s string) (HexBytes, ErrorI) {
	bz, err := StringToBytes(s)
	if err != nil {
		return nil, err
	}
	return bz, nil
}

func (x HexBytes) String() string { return BytesToString(x) }

func (x HexBytes) MarshalJSON() ([]byte, error) { return json.Marshal(BytesToString(x)) }

func (x *HexBytes) UnmarshalJSON(b []byte) (err error) {
	var s string
	if err = json.Unmarshal(b, &s); err != nil {
		return err
	}
	*x, err = StringToBytes(s)
	return
}

// MarshalJSONIndent serializes a value into an indented JSON byte slice.
func MarshalJSONIndent(v any) ([]byte, ErrorI) {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, ErrJSONMarshal(err)
	}
	return bz, nil
}

// UnmarshalJSON deserializes a JSON byte slice into ptr.
func UnmarshalJSON(bz []byte, ptr any) ErrorI {
	if err := json.Unmarshal(bz, ptr); err != nil {
		return ErrJSONUnmarshal(err)
	}
	return nil
}

// NewJSONFromFile reads a json object from dataDirPath/filePath into o.
func NewJSONFromFile(o any, dataDirPath, filePath string) ErrorI {
	bz, err := os.ReadFile(filepath.Join(dataDirPath, filePath))
	if err != nil {
		return ErrReadFile(err)
	}
	return UnmarshalJSON(bz, o)
}

// SaveJSONToFile saves j as indented JSON to dataDirPath/filePath.
func SaveJSONToFile(j any, dataDirPath, filePath string) (err ErrorI) {
	bz, err := MarshalJSONIndent(j)
	if err != nil {
		return
	}
	if e := os.WriteFile(filepath.Join(dataDirPath, filePath), bz, os.ModePerm); e != nil {
		return ErrWriteFile(e)
	}
	return
}

// CatchPanic recovers a panic in the calling function (or its callees) and logs the stack trace
// instead of crashing the process. It only takes effect when deferred directly by the function
// whose panic should be caught.
func CatchPanic(l LoggerI) {
	if r := recover(); r != nil {
		l.Errorf("recovered from panic: %v\n%s", r, debug.Stack())
	}
}

// JoinLenPrefix appends byte segments together, each preceded by a single byte giving its length.
// Used to build iteration-friendly composite keys (e.g. height ‖ node hash) for the badger store.
func JoinLenPrefix(toAppend ...[]byte) (res []byte) {
	for _, item := range toAppend {
		if item == nil {
			continue
		}
		res = append(append(res, byte(len(item))), item...)
	}
	return
}
