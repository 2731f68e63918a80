/*
Package atomicfile writes a file so that readers never see it half-written.

Data is written to a temporary file in the destination directory. On
successful Close the temporary file is moved into place. If Write, Sync or
Close fails, the temporary file is removed and the destination is untouched.

With NoOverwrite set, Close fails with an error matching os.ErrExist when
the destination already exists, instead of replacing it. This is how a
log file that other processes might be creating at the same time gets its
initial content:

	func createWithHeader(path string, header []byte) error {
		err := atomicfile.WriteNew(path, header)
		if errors.Is(err, os.ErrExist) {
			// someone else created it first
			return nil
		}
		return err
	}
*/
package atomicfile
