// Package secret provides an owned byte buffer for sensitive material such as
// symmetric keys, derived intermediate secrets and decrypted plaintext.
//
// A Buffer lives in an anonymous mmap region outside the Go heap, so the
// garbage collector never copies or relocates it. The region is excluded from
// core dumps and locked into RAM when the process memlock limit permits.
//
// Constructors:
//
//   - [Make] allocates a zero-filled buffer of a given size
//   - [Copy] copies a slice into protected memory
//   - [New] copies a slice into protected memory and zeroes the source
//
// A Buffer has exactly one holder. The holder must call Destroy when it is done,
// which zeroes the region before unmapping it. The usual pattern is to defer
// Destroy directly after the buffer is obtained so that it runs on every return
// path, including error returns:
//
//	buf, err := cryptoutils.DecryptAEAD(key, iv, aad, ct, tag)
//	if err != nil {
//	    return err
//	}
//	defer buf.Destroy()
//
// Buffers are never copied implicitly. Clone produces an explicit copy that
// carries its own Destroy obligation.
package secret
