package cmd

import (
	"bytes"
	_ "embed"
	"os"
	"path"
	"text/template"

	"github.com/spf13/cobra"
)

var (
	pkg        string
	createMain bool
)

//go:embed data.tmpl
var dataTmpl string

//go:embed work.tmpl
var workTmpl string

//go:embed main.tmpl
var mainTmpl string

var tmpls = template.New("")

type tmplArgs struct {
	PackagePath string
	PackageName string
}

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the barebones structure of a trpl application",
	Long: `A program built on the trpl package has a recurring shape: a main that
owns the Runtime, a work package with the Funcs that get driven, and an
unbounded channel between a producing task and the code consuming its
output. This command writes that skeleton so you can get straight to the
interesting part. For example:

	cd <your main directory>
	trpl-cli init -m -p "<the path to main directory + work package name>"
	go mod init <path to main directory> // if needed
	go mod tidy
	go fmt ./...

If I was in the "test" directory and ran the following:

	trpl-cli init -m -p "github.com/example/test/mywork"

this would leave the following structure in that directory:

	.
	├── main.go
	└── mywork
	    ├── data.go
	    └── mywork.go

After a go mod tidy the program is runnable.

If you do not need a main.go, simply remove the "-m" from the command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tArgs := tmplArgs{
			PackagePath: pkg,
			PackageName: path.Base(pkg),
		}

		dataBuff := &bytes.Buffer{}
		workBuff := &bytes.Buffer{}
		mainBuff := &bytes.Buffer{}

		if err := tmpls.ExecuteTemplate(dataBuff, "data", tArgs); err != nil {
			return err
		}
		if err := tmpls.ExecuteTemplate(workBuff, "work", tArgs); err != nil {
			return err
		}
		if err := tmpls.ExecuteTemplate(mainBuff, "main", tArgs); err != nil {
			return err
		}

		if err := os.Mkdir(path.Base(tArgs.PackagePath), 0o700); err != nil {
			return err
		}

		if createMain {
			if err := os.WriteFile("main.go", mainBuff.Bytes(), 0o600); err != nil {
				return err
			}
		}

		if err := os.Chdir(path.Base(tArgs.PackagePath)); err != nil {
			return err
		}

		if err := os.WriteFile("data.go", dataBuff.Bytes(), 0o600); err != nil {
			return err
		}
		if err := os.WriteFile(path.Base(tArgs.PackagePath)+".go", workBuff.Bytes(), 0o600); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	template.Must(tmpls.New("data").Parse(dataTmpl))
	template.Must(tmpls.New("work").Parse(workTmpl))
	template.Must(tmpls.New("main").Parse(mainTmpl))

	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&pkg, "pkg", "p", "", "The package you wish to create")
	initCmd.Flags().BoolVarP(&createMain, "createMain", "m", false, "Create a main file that calls the package")
	initCmd.MarkFlagRequired("pkg")
}
