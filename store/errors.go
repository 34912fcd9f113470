package store

import (
	"fmt"

	"github.com/rem1niscence/smt/lib"
)

const Module lib.ErrorModule = "store"

const (
	CodeOpenDB        lib.ErrorCode = 1
	CodeCloseDB       lib.ErrorCode = 2
	CodeStoreSet      lib.ErrorCode = 3
	CodeStoreGet      lib.ErrorCode = 4
	CodeStoreDelete   lib.ErrorCode = 5
	CodeCommitDB      lib.ErrorCode = 6
	CodeProofTooLarge lib.ErrorCode = 7
)

func ErrOpenDB(err error) lib.ErrorI {
	return lib.NewError(CodeOpenDB, Module, fmt.Sprintf("badger.Open() failed with err: %s", err.Error()))
}

func ErrCloseDB(err error) lib.ErrorI {
	return lib.NewError(CodeCloseDB, Module, fmt.Sprintf("db.Close() failed with err: %s", err.Error()))
}

func ErrStoreSet(err error) lib.ErrorI {
	return lib.NewError(CodeStoreSet, Module, fmt.Sprintf("txn.Set() failed with err: %s", err.Error()))
}

func ErrStoreGet(err error) lib.ErrorI {
	return lib.NewError(CodeStoreGet, Module, fmt.Sprintf("txn.Get() failed with err: %s", err.Error()))
}

func ErrStoreDelete(err error) lib.ErrorI {
	return lib.NewError(CodeStoreDelete, Module, fmt.Sprintf("txn.Delete() failed with err: %s", err.Error()))
}

func ErrCommitDB(err error) lib.ErrorI {
	return lib.NewError(CodeCommitDB, Module, fmt.Sprintf("txn.Commit() failed with err: %s", err.Error()))
}

func ErrProofTooLarge(size int, max int64) lib.ErrorI {
	return lib.NewError(CodeProofTooLarge, Module, fmt.Sprintf("proof program is %d bytes, exceeding the %d byte maximum", size, max))
}
