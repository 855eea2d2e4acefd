// Copyright (c) 2019-2024, PGPTools Authors. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package docs holds the help text for every pgpselect command in one place.
package docs

// Global content for help and man pages.
const (
	PgpselectUse   string = `pgpselect [global options...]`
	PgpselectShort string = `RFC 4880 OpenPGP key selection`
	PgpselectLong  string = `
  pgpselect maintains a local OpenPGP key store and selects, per RFC 4880
  section 5.2.3.21, which key bound to an identity is valid and appropriate
  for signing or encryption.`
	PgpselectExample string = `
  $ pgpselect help
      Additional help for any pgpselect subcommand can be seen by appending
      the subcommand name to the above command.`

	// key
	KeyUse   string = `key [key options...]`
	KeyShort string = `Manage the local OpenPGP key store`
	KeyLong  string = `
  The 'key' command allows you to manage the local OpenPGP key store: list,
  import, export and remove keys.`
	KeyExample string = `
  All group commands have their own help output:

  $ pgpselect help key import
  $ pgpselect key list --help`

	// key list
	KeyListUse   string = `list`
	KeyListShort string = `List keys in the local key store`
	KeyListLong  string = `
  The 'key list' command allows you to list public/private key pairs from the
  local key store location (e.g., $HOME/.pgpselect).`
	KeyListExample string = `
  $ pgpselect key list
  $ pgpselect key list --secret`

	// key import
	KeyImportUse   string = `import [import options...] <input-file>`
	KeyImportShort string = `Import a local key into the local key store`
	KeyImportLong  string = `
  The 'key import' command allows you to add a key to the local key store.
  The key can be in binary or ascii armored format, and can hold public or
  private material.`
	KeyImportExample string = `
  $ pgpselect key import ./my-key.asc`

	// key export
	KeyExportUse   string = `export [export options...] <fingerprint> <output-file>`
	KeyExportShort string = `Export a key from the local key store to a file`
	KeyExportLong  string = `
  The 'key export' command allows you to export a key from the local key
  store, in binary or ascii armored format.`
	KeyExportExample string = `
  Exporting a public key:

  $ pgpselect key export --armor 8883491F4268F173C6E5DC49EDECE4F3F38D871E ./my-key.asc

  Exporting a private key:

  $ pgpselect key export --secret 8883491F4268F173C6E5DC49EDECE4F3F38D871E ./my-key`

	// key remove
	KeyRemoveUse   string = `remove <fingerprint>`
	KeyRemoveShort string = `Remove a local public key`
	KeyRemoveLong  string = `
  The 'key remove' command will remove a local public key from the local key
  store.`
	KeyRemoveExample string = `
  $ pgpselect key remove D87FE3AF5C1F063FCBCC9B02F812842B5EEE5934`

	// select
	SelectUse   string = `select [select options...] <identity>`
	SelectShort string = `Select the key to use for a purpose`
	SelectLong  string = `
  The 'select' command picks the single key bound to the given identity that
  is valid and appropriate for the requested purpose. A signing key must be a
  non-revoked, non-expired, signature-capable subkey with private material in
  the local store. An encryption key is chosen from public material alone.
  When several keys qualify, the last one in keyring order wins.`
	SelectExample string = `
  $ pgpselect select --purpose sign john.doe@example.com
  $ pgpselect select --purpose encrypt --at 2021-06-01T00:00:00Z "John Doe"`

	// verify-keys
	VerifyKeysUse   string = `verify-keys [verify-keys options...] <identity>`
	VerifyKeysShort string = `List all keys valid for verifying signatures`
	VerifyKeysLong  string = `
  The 'verify-keys' command lists every key bound to the given identity that
  could verify (or produce) a signature: signature-capable, not revoked, not
  expired, and with private material in the local store. Unlike 'select
  --purpose sign', master keys are not excluded.`
	VerifyKeysExample string = `
  $ pgpselect verify-keys john.doe@example.com`
)
