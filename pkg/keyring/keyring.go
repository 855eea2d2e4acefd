// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package keyring manages the local OpenPGP key store: a pair of private
// files holding the public and secret keyrings, plus import/export of keys.
// It implements the collaborator contracts the keysel package selects over.
package keyring

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/pkg/errors"

	"github.com/pgptools/pgpselect/internal/pkg/sylog"
)

const (
	dirEnv = "PGPSELECT_DIR"

	publicFile = "pgp-public"
	secretFile = "pgp-secret"
)

// KeyExistsError is a type representing an error associated to a specific key.
type KeyExistsError struct {
	fingerprint []byte
}

func (e *KeyExistsError) Error() string {
	return fmt.Sprintf("the key with fingerprint %X already belongs to the keyring", e.fingerprint)
}

// Handle is a structure representing a keyring store.
type Handle struct {
	path string
}

// NewHandle initializes a Handle object rooted at path. An empty path selects
// the default store location.
func NewHandle(path string) *Handle {
	if path == "" {
		path = DirPath()
	}
	return &Handle{path: path}
}

// DirPath returns the default location of the key store, honoring the
// PGPSELECT_DIR environment variable.
func DirPath() string {
	if dir := os.Getenv(dirEnv); dir != "" {
		return dir
	}

	home, err := os.UserHomeDir()
	if err != nil {
		sylog.Warningf("Could not determine home directory: %v", err)
		return ".pgpselect"
	}
	return filepath.Join(home, ".pgpselect")
}

// SecretPath returns the path to the secret keys store.
func (keyring *Handle) SecretPath() string {
	return filepath.Join(keyring.path, secretFile)
}

// PublicPath returns the path to the public keys store.
func (keyring *Handle) PublicPath() string {
	return filepath.Join(keyring.path, publicFile)
}

// ensureDirPrivate makes sure that the file system mode for the named
// directory does not allow other users access to it (neither read nor
// write).
func ensureDirPrivate(dn string) error {
	mode := os.FileMode(0700)

	oldumask := syscall.Umask(0077)

	err := os.MkdirAll(dn, mode)

	// restore umask...
	syscall.Umask(oldumask)

	// ... and check if there was an error in the os.MkdirAll call
	if err != nil {
		return err
	}

	dirinfo, err := os.Stat(dn)
	if err != nil {
		return err
	}

	if currentMode := dirinfo.Mode(); currentMode != os.ModeDir|mode {
		sylog.Warningf("Directory mode (%o) on %s needs to be %o, fixing that...", currentMode & ^os.ModeDir, dn, mode)
		if err := os.Chmod(dn, mode); err != nil {
			return err
		}
	}

	return nil
}

// createOrAppendPrivateFile creates the named filename, making sure
// it's only accessible to the current user.
func createOrAppendPrivateFile(fn string) (*os.File, error) {
	return os.OpenFile(fn, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ensureFilePrivate makes sure that the file system mode for the named
// file does not allow other users access to it (neither read nor
// write).
func ensureFilePrivate(fn string) error {
	mode := os.FileMode(0600)

	oldumask := syscall.Umask(0077)

	fs, err := os.OpenFile(fn, os.O_RDWR|os.O_CREATE, mode)

	syscall.Umask(oldumask)

	if err != nil {
		return err
	}
	defer fs.Close()

	// check and fix permissions
	fsinfo, err := fs.Stat()
	if err != nil {
		return err
	}

	if currentMode := fsinfo.Mode(); currentMode != mode {
		sylog.Warningf("File mode (%o) on %s needs to be %o, fixing that...", currentMode, fn, mode)
		if err := fs.Chmod(mode); err != nil {
			return err
		}
	}

	return nil
}

// PathsCheck creates the store home folder and the secret and public keyring
// files.
func (keyring *Handle) PathsCheck() error {
	if err := ensureDirPrivate(keyring.path); err != nil {
		return err
	}

	if err := ensureFilePrivate(keyring.SecretPath()); err != nil {
		return err
	}

	return ensureFilePrivate(keyring.PublicPath())
}

func loadKeyring(fn string) (openpgp.EntityList, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return openpgp.ReadKeyRing(f)
}

// LoadPrivKeyring loads the private keys from the local store into an
// EntityList.
func (keyring *Handle) LoadPrivKeyring() (openpgp.EntityList, error) {
	if err := keyring.PathsCheck(); err != nil {
		return nil, err
	}

	return loadKeyring(keyring.SecretPath())
}

// LoadPubKeyring loads the public keys from the local store into an
// EntityList.
func (keyring *Handle) LoadPubKeyring() (openpgp.EntityList, error) {
	if err := keyring.PathsCheck(); err != nil {
		return nil, err
	}

	return loadKeyring(keyring.PublicPath())
}

// loadKeysFromFile loads one or more keys from the specified file.
//
// The key can be either a public or private key, and the file might be
// in binary or ascii armored format.
func loadKeysFromFile(fn string) (openpgp.EntityList, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if entities, err := openpgp.ReadKeyRing(f); err == nil {
		return entities, nil
	}

	// cannot load keys from file, perhaps it's ascii armored?
	// rewind and try again
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	return openpgp.ReadArmoredKeyRing(f)
}

// printEntity pretty prints an entity entry to w.
func printEntity(w io.Writer, index int, e *openpgp.Entity) {
	for _, v := range e.Identities {
		fmt.Fprintf(w, "%d) U: %s (%s) <%s>\n", index, v.UserId.Name, v.UserId.Comment, v.UserId.Email)
	}
	fmt.Fprintf(w, "   C: %s\n", e.PrimaryKey.CreationTime)
	fmt.Fprintf(w, "   F: %0X\n", e.PrimaryKey.Fingerprint)
	bits, _ := e.PrimaryKey.BitLength()
	fmt.Fprintf(w, "   L: %d\n", bits)
}

func printEntities(w io.Writer, entities openpgp.EntityList) {
	for i, e := range entities {
		printEntity(w, i, e)
		fmt.Fprint(w, "   --------\n")
	}
}

// PrintPubKeyring prints the public keyring read from the local store.
func (keyring *Handle) PrintPubKeyring() error {
	pubEntlist, err := keyring.LoadPubKeyring()
	if err != nil {
		return err
	}

	printEntities(os.Stdout, pubEntlist)

	return nil
}

// PrintPrivKeyring prints the secret keyring read from the local store.
func (keyring *Handle) PrintPrivKeyring() error {
	privEntlist, err := keyring.LoadPrivKeyring()
	if err != nil {
		return err
	}

	printEntities(os.Stdout, privEntlist)

	return nil
}

// storePrivKeys writes all the private keys in list to the writer w.
func storePrivKeys(w io.Writer, list openpgp.EntityList) error {
	for _, e := range list {
		if err := e.SerializePrivate(w, nil); err != nil {
			return err
		}
	}

	return nil
}

// appendPrivateKey appends a private key entity to the local keyring.
func (keyring *Handle) appendPrivateKey(e *openpgp.Entity) error {
	f, err := createOrAppendPrivateFile(keyring.SecretPath())
	if err != nil {
		return err
	}
	defer f.Close()

	return storePrivKeys(f, openpgp.EntityList{e})
}

// storePubKeys writes all the public keys in list to the writer w.
func storePubKeys(w io.Writer, list openpgp.EntityList) error {
	for _, e := range list {
		if err := e.Serialize(w); err != nil {
			return err
		}
	}

	return nil
}

// appendPubKey appends a public key entity to the local keyring.
func (keyring *Handle) appendPubKey(e *openpgp.Entity) error {
	f, err := createOrAppendPrivateFile(keyring.PublicPath())
	if err != nil {
		return err
	}
	defer f.Close()

	return storePubKeys(f, openpgp.EntityList{e})
}

// storePubKeyring overwrites the public keyring with the listed keys.
func (keyring *Handle) storePubKeyring(keys openpgp.EntityList) error {
	f, err := os.OpenFile(keyring.PublicPath(), os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, k := range keys {
		if err := k.Serialize(f); err != nil {
			return errors.Wrap(err, "could not store public key")
		}
	}

	return nil
}

// compareKeyEntity compares a key fingerprint with a string, returning true
// if they match.
func compareKeyEntity(e *openpgp.Entity, fingerprint string) bool {
	return fmt.Sprintf("%X", e.PrimaryKey.Fingerprint) == fingerprint
}

func findKeyByFingerprint(entities openpgp.EntityList, fingerprint string) *openpgp.Entity {
	for _, e := range entities {
		if compareKeyEntity(e, fingerprint) {
			return e
		}
	}

	return nil
}

// CheckLocalPubKey will check if we have a local public key matching the
// given fingerprint, returning true if there's a match.
func (keyring *Handle) CheckLocalPubKey(ckey string) (bool, error) {
	elist, err := loadKeyring(keyring.PublicPath())
	switch {
	case os.IsNotExist(err):
		return false, nil

	case err != nil:
		return false, errors.Wrap(err, "unable to load local keyring")
	}

	return findKeyByFingerprint(elist, ckey) != nil, nil
}

// RemovePubKey will delete a public key matching the fingerprint toDelete.
func (keyring *Handle) RemovePubKey(toDelete string) error {
	elist, err := loadKeyring(keyring.PublicPath())
	switch {
	case os.IsNotExist(err):
		return nil

	case err != nil:
		return errors.Wrap(err, "unable to list local keyring")
	}

	var newKeyList openpgp.EntityList

	matchKey := false

	// sort through them, and remove any that match toDelete
	for i := range elist {
		if !compareKeyEntity(elist[i], toDelete) {
			newKeyList = append(newKeyList, elist[i])
		} else {
			matchKey = true
		}
	}

	if !matchKey {
		return fmt.Errorf("no key matching given fingerprint found")
	}

	sylog.Verbosef("Updating local keyring: %v", keyring.PublicPath())

	return keyring.storePubKeyring(newKeyList)
}

func serializeEntity(e *openpgp.Entity, blockType string) (string, error) {
	w := new(strings.Builder)

	wr, err := armor.Encode(w, blockType, nil)
	if err != nil {
		return "", err
	}

	if err = e.Serialize(wr); err != nil {
		wr.Close()
		return "", err
	}
	wr.Close()

	return w.String(), nil
}

func serializePrivateEntity(e *openpgp.Entity, blockType string) (string, error) {
	w := new(strings.Builder)

	wr, err := armor.Encode(w, blockType, nil)
	if err != nil {
		return "", err
	}

	if err = e.SerializePrivate(wr, nil); err != nil {
		wr.Close()
		return "", err
	}
	wr.Close()

	return w.String(), nil
}

// ExportPubKey exports a public key with the given fingerprint into a file
// kpath, armored if asked to.
func (keyring *Handle) ExportPubKey(fingerprint, kpath string, armored bool) error {
	localEntityList, err := loadKeyring(keyring.PublicPath())
	if err != nil {
		return errors.Wrap(err, "unable to open local keyring")
	}

	entityToExport := findKeyByFingerprint(localEntityList, fingerprint)
	if entityToExport == nil {
		return fmt.Errorf("no key matching given fingerprint found")
	}

	file, err := os.Create(kpath)
	if err != nil {
		return errors.Wrap(err, "unable to create file")
	}
	defer file.Close()

	if armored {
		var keyText string
		keyText, err = serializeEntity(entityToExport, openpgp.PublicKeyType)
		if err == nil {
			_, err = file.WriteString(keyText)
		}
	} else {
		err = entityToExport.Serialize(file)
	}

	if err != nil {
		return errors.Wrap(err, "unable to serialize public key")
	}
	fmt.Printf("Public key with fingerprint %s correctly exported to file: %s\n", fingerprint, kpath)

	return nil
}

// ExportPrivateKey exports a private key with the given fingerprint into a
// file kpath, armored if asked to. The key is re-encrypted with its current
// passphrase on the way out.
func (keyring *Handle) ExportPrivateKey(fingerprint, kpath string, armored bool) error {
	localEntityList, err := loadKeyring(keyring.SecretPath())
	if err != nil {
		return errors.Wrap(err, "unable to load private keyring")
	}

	entityToExport := findKeyByFingerprint(localEntityList, fingerprint)
	if entityToExport == nil {
		return fmt.Errorf("no key matching given fingerprint found")
	}

	if err := RecryptKey(entityToExport); err != nil {
		return err
	}

	file, err := os.Create(kpath)
	if err != nil {
		return errors.Wrap(err, "unable to create file")
	}
	defer file.Close()

	if armored {
		var keyText string
		keyText, err = serializePrivateEntity(entityToExport, openpgp.PrivateKeyType)
		if err == nil {
			_, err = file.WriteString(keyText)
		}
	} else {
		err = entityToExport.SerializePrivate(file, nil)
	}

	if err != nil {
		return errors.Wrap(err, "unable to serialize private key")
	}
	fmt.Printf("Private key with fingerprint %s correctly exported to file: %s\n", fingerprint, kpath)

	return nil
}

func findEntityByFingerprint(entities openpgp.EntityList, fingerprint []byte) *openpgp.Entity {
	for _, entity := range entities {
		if bytes.Equal(entity.PrimaryKey.Fingerprint, fingerprint) {
			return entity
		}
	}

	return nil
}

// importPrivateKey imports the specified openpgp Entity, which should
// represent a private key. The entity is added to the private keyring.
func (keyring *Handle) importPrivateKey(entity *openpgp.Entity) error {
	privateEntityList, err := keyring.LoadPrivKeyring()
	if err != nil {
		return err
	}

	if entity.PrivateKey == nil {
		return fmt.Errorf("corrupted key, unable to recover data")
	}

	if findEntityByFingerprint(privateEntityList, entity.PrimaryKey.Fingerprint) != nil {
		return &KeyExistsError{fingerprint: entity.PrivateKey.Fingerprint}
	}

	// Make a clone of the entity
	newEntity := &openpgp.Entity{
		PrimaryKey:  entity.PrimaryKey,
		PrivateKey:  entity.PrivateKey,
		Identities:  entity.Identities,
		Revocations: entity.Revocations,
		Subkeys:     entity.Subkeys,
	}

	if entity.PrivateKey.Encrypted {
		if err := DecryptKey(newEntity, "Enter your old password : "); err != nil {
			return err
		}
	}

	// Get a new password for the key
	newPass, err := GetPassphrase("Enter a new password for this key : ", 3)
	if err != nil {
		return err
	}

	if err := EncryptKey(newEntity, newPass); err != nil {
		return err
	}

	return keyring.appendPrivateKey(newEntity)
}

// importPublicKey imports the specified openpgp Entity, which should
// represent a public key. The entity is added to the public keyring.
func (keyring *Handle) importPublicKey(entity *openpgp.Entity) error {
	publicEntityList, err := keyring.LoadPubKeyring()
	if err != nil {
		return err
	}

	if findEntityByFingerprint(publicEntityList, entity.PrimaryKey.Fingerprint) != nil {
		return &KeyExistsError{fingerprint: entity.PrimaryKey.Fingerprint}
	}

	return keyring.appendPubKey(entity)
}

// ImportKey imports one or more keys from the specified file. The keys
// can be either public or private keys, and the file can be either in
// binary or ascii-armored format.
func (keyring *Handle) ImportKey(kpath string) error {
	pathEntityList, err := loadKeysFromFile(kpath)
	if err != nil {
		return errors.Wrapf(err, "unable to get entity from %s", kpath)
	}

	for _, pathEntity := range pathEntityList {
		if pathEntity.PrivateKey != nil {
			// We have a private key
			if err := keyring.importPrivateKey(pathEntity); err != nil {
				return err
			}

			fmt.Printf("Key with fingerprint %X successfully added to the private keyring\n",
				pathEntity.PrivateKey.Fingerprint)
		}

		// There's no else here because a single entity can have
		// both private and public keys
		if pathEntity.PrimaryKey != nil {
			// We have a public key
			if err := keyring.importPublicKey(pathEntity); err != nil {
				return err
			}

			fmt.Printf("Key with fingerprint %X successfully added to the public keyring\n",
				pathEntity.PrimaryKey.Fingerprint)
		}
	}

	return nil
}
