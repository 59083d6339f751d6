package vfs

import "time"

// HomeDir is the default user's home directory in the seed tree.
const HomeDir = "/home/user"

const readme = "Welcome to your home directory!\n" +
	"This is a sample file created by the system.\n\n" +
	"You can edit this file using the nano editor in the terminal.\n" +
	"Try: nano readme.txt"

const sampleScript = "#!/bin/bash\n" +
	"echo 'Hello from hairetsucom desktop!'\n" +
	"echo 'Running system checks...'\n" +
	"pwd\n" +
	"whoami\n" +
	"date\n" +
	"echo 'Creating test files...'\n" +
	"touch test1.txt\n" +
	"touch test2.txt\n" +
	"echo 'Listing directory contents:'\n" +
	"ls\n" +
	"echo 'Script execution completed successfully!'"

const hosts = "127.0.0.1 localhost\n::1 localhost\n127.0.0.1 hairetsucom.local"

// Seed builds the fixed sample layout every session starts with.
func Seed(now time.Time) *FileNode {
	dir := func(name string, children ...*FileNode) *FileNode {
		d := newDirectory(name, now)
		for _, c := range children {
			d.children[c.Name] = c
		}
		return d
	}

	return dir(Root,
		dir("home",
			dir("user",
				dir("Documents"),
				dir("Downloads"),
				dir("Pictures"),
				dir("Videos"),
				newFile("readme.txt", readme, now),
				newFile("script.sh", sampleScript, now),
			),
		),
		dir("etc", newFile("hosts", hosts, now)),
		dir("usr"),
		dir("var"),
		dir("tmp"),
	)
}
