package app

// ShortID truncates a transaction signature for logging.
func ShortID(sig string) string {
	if len(sig) <= 16 {
		return sig
	}
	return sig[:8] + "…" + sig[len(sig)-8:]
}
