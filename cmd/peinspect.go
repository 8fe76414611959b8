// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	pe "github.com/binscope/pe"
	"github.com/spf13/cobra"
)

func prettyPrint(v interface{}) string {
	buf, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<marshal error: %v>", err)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf, "", "\t"); err != nil {
		return string(buf)
	}
	return pretty.String()
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func inspect(filename string, cmd *cobra.Command) {
	f, err := pe.Open(filename, &pe.Options{})
	if err != nil {
		fmt.Printf("%s: %v\n", filename, err)
		return
	}
	defer f.Close()

	if err := f.Parse(); err != nil {
		fmt.Printf("%s: %v\n", filename, err)
		return
	}

	if ok, _ := cmd.Flags().GetBool("sections"); ok {
		fmt.Println(prettyPrint(f.Sections))
	}
	if ok, _ := cmd.Flags().GetBool("imports"); ok {
		fmt.Println(prettyPrint(f.Imports))
	}
	if ok, _ := cmd.Flags().GetBool("imphash"); ok {
		fmt.Println(f.ImportHash())
	}
	if ok, _ := cmd.Flags().GetBool("strings"); ok {
		fmt.Println(prettyPrint(pe.FindStrings(f.SectionsAsMachineCode(), pe.DefaultMinStringLength)))
	}

	if dir, _ := cmd.Flags().GetString("dump-sections"); dir != "" {
		dumpSections(f, dir)
	}
}

// dumpSections writes every section whose name starts with ".text"
// to <dir>/section_<index>.bin. This is the outer-shell auxiliary
// output a parsing library itself never performs.
func dumpSections(f *pe.File, dir string) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("dump-sections: %v", err)
		return
	}
	for i, s := range f.Sections {
		if len(s.Name) < 5 || s.Name[:5] != ".text" {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("section_%d.bin", i))
		if err := os.WriteFile(path, s.RawData, 0o644); err != nil {
			log.Printf("dump-sections: %s: %v", path, err)
		}
	}
}

func run(cmd *cobra.Command, args []string) {
	target := args[0]
	if !isDirectory(target) {
		inspect(target, cmd)
		return
	}

	var files []string
	filepath.Walk(target, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	for _, f := range files {
		inspect(f, cmd)
	}
}

func main() {
	root := &cobra.Command{
		Use:   "peinspect",
		Short: "Inspects the MZ/PE structure of an executable",
		Long:  "peinspect parses the DOS stub, PE header, sections and import table of a PE image",
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [path]",
		Short: "Parses a file, or every file under a directory",
		Args:  cobra.ExactArgs(1),
		Run:   run,
	}
	inspectCmd.Flags().Bool("sections", false, "print the section table")
	inspectCmd.Flags().Bool("imports", false, "print the import table")
	inspectCmd.Flags().Bool("imphash", false, "print the import hash")
	inspectCmd.Flags().Bool("strings", false, "print ASCII strings found in section data")
	inspectCmd.Flags().String("dump-sections", "", "write .text-prefixed sections as <dir>/section_<i>.bin")

	root.AddCommand(inspectCmd)

	if err := root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
