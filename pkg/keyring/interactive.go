// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package keyring

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/pgptools/pgpselect/internal/pkg/sylog"
)

var errPassphraseMismatch = errors.New("passphrases do not match")
var errTooManyRetries = errors.New("too many retries while getting a passphrase")
var errNotEncrypted = errors.New("key is not encrypted")

// askQuestionUsingGenericDescr reads one line from a file descriptor. The
// file can be a normal file or os.Stdin, so prompts keep working when stdin
// is redirected (pipes, tests).
func askQuestionUsingGenericDescr(f *os.File) (string, error) {
	// Keep track of the buffer position so subsequent reads continue at the
	// end of the consumed line, not at the end of whatever the buffered
	// reader swallowed. Seek errors are ignored on purpose: pipes cannot
	// seek, and there the repositioning is a no-op anyway.
	pos, _ := f.Seek(0, io.SeekCurrent)
	scanner := bufio.NewScanner(f)
	tok := scanner.Scan()
	if !tok {
		return "", scanner.Err()
	}
	response := scanner.Text()
	if err := scanner.Err(); err != nil {
		return "", err
	}

	strLen := 1 // we always move forward, even on an empty response
	if len(response) > 1 {
		strLen += len(response)
	}
	f.Seek(pos+int64(strLen), io.SeekStart)

	return response, nil
}

// AskQuestion prompts the user with a question and returns the response.
func AskQuestion(format string, a ...interface{}) (string, error) {
	fmt.Printf(format, a...)
	return askQuestionUsingGenericDescr(os.Stdin)
}

// AskQuestionNoEcho works like AskQuestion() except it doesn't echo the
// user's input.
func AskQuestionNoEcho(format string, a ...interface{}) (string, error) {
	fmt.Printf(format, a...)

	var response string
	var err error
	// terminal.ReadPassword only works when the underlying file descriptor
	// is a VT100 terminal, not with redirected stdin (tests, pipes).
	if terminal.IsTerminal(int(os.Stdin.Fd())) {
		var resp []byte
		resp, err = terminal.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return "", err
		}
		response = string(resp)
	} else {
		response, err = askQuestionUsingGenericDescr(os.Stdin)
		if err != nil {
			return "", err
		}
	}
	fmt.Println("")
	return response, nil
}

// GetPassphrase will ask the user for a passphrase with retries number of
// retries.
func GetPassphrase(message string, retries int) (string, error) {
	ask := func() (string, error) {
		pass1, err := AskQuestionNoEcho(message)
		if err != nil {
			return "", err
		}

		pass2, err := AskQuestionNoEcho("Retype your passphrase : ")
		if err != nil {
			return "", err
		}

		if pass1 != pass2 {
			return "", errPassphraseMismatch
		}

		return pass1, nil
	}

	for i := 0; i < retries; i++ {
		switch passphrase, err := ask(); err {
		case nil:
			return passphrase, nil
		case errPassphraseMismatch:
			sylog.Warningf("%v", err)
		default:
			return "", err
		}
	}

	return "", errTooManyRetries
}

// DecryptKey decrypts a private key provided a pass phrase.
func DecryptKey(k *openpgp.Entity, message string) error {
	if !k.PrivateKey.Encrypted {
		return errNotEncrypted
	}

	if message == "" {
		message = "Enter key passphrase : "
	}

	pass, err := AskQuestionNoEcho(message)
	if err != nil {
		return err
	}

	return k.PrivateKey.Decrypt([]byte(pass))
}

// EncryptKey encrypts a private key using a pass phrase.
func EncryptKey(k *openpgp.Entity, pass string) error {
	if k.PrivateKey.Encrypted {
		return errors.New("key already encrypted")
	}
	return k.PrivateKey.Encrypt([]byte(pass))
}

// RecryptKey will decrypt an entity, then re-encrypt it with the same
// password, forcing a fresh serialization of the secret material.
func RecryptKey(k *openpgp.Entity) error {
	if !k.PrivateKey.Encrypted {
		return nil
	}

	pass, err := AskQuestionNoEcho("Enter key passphrase : ")
	if err != nil {
		return err
	}
	if err := k.PrivateKey.Decrypt([]byte(pass)); err != nil {
		return err
	}
	return k.PrivateKey.Encrypt([]byte(pass))
}
