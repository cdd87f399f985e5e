package main

import (
	"fmt"
	"os"
	"strings"

	. "conans"
	"conans/tools"
	"shutil"
)

const upstream = "https://github.com/openssl/openssl"

// Banner runs at load time.
var Banner = strings.ToUpper("openssl")

type OpenSSL struct {
	ConanFile
}

func (r *OpenSSL) Source() {
	archive := fmt.Sprintf("%s/archive/OpenSSL_%s.tar.gz", upstream, r.Version)
	tools.Get(archive, tools.Kwargs{"sha256": "abc", "strip_root": true})
	os.MkdirAll("source_subfolder", 0o755)
	os.Chdir("source_subfolder")
	if _, err := os.Stat("Configure"); err == nil {
		os.Chmod("Configure", 0o755)
	}
	if tools.Load("VERSION") == "" {
		tools.Save("VERSION", r.Version)
	}
	shutil.Move("openssl-src", "source_subfolder")
	r.Run("git clone https://github.com/openssl/krb5.git && cd krb5 && git checkout krb5-1.19")
}
