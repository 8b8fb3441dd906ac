package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

type engine interface {
	ListTables(ctx context.Context) ([]string, error)
	TableDDL(ctx context.Context, table string) (string, error)
	Update(ctx context.Context, table string) error
	UpdateAll(ctx context.Context) error
}

type app struct {
	svc  engine
	out  io.Writer
	errw io.Writer
}

func (a *app) listTables(ctx context.Context) error {
	names, err := a.svc.ListTables(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Tables: %s\n", strings.Join(names, ", "))
	return nil
}

func (a *app) printDDL(ctx context.Context, table string) error {
	ddl, err := a.svc.TableDDL(ctx, table)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ddl)
	return nil
}

// update с пустым именем обновляет все таблицы
func (a *app) update(ctx context.Context, table string) error {
	if table == "" {
		if err := a.svc.UpdateAll(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Updated all.")
		return nil
	}
	if err := a.svc.Update(ctx, table); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s.\n", table)
	return nil
}

// menu интерактивный режим. Ошибка команды печатается, цикл продолжается.
func (a *app) menu(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	ask := func(prompt string) (string, bool) {
		fmt.Fprint(a.out, prompt)
		if !sc.Scan() {
			return "", false
		}
		return strings.TrimSpace(sc.Text()), true
	}

	for {
		choice, ok := ask("1) tables  2) ddl <table>  3) update all  4) update <table>  0) exit\n> ")
		if !ok {
			return sc.Err()
		}

		var err error
		switch choice {
		case "0":
			return nil
		case "1":
			err = a.listTables(ctx)
		case "2":
			if t, ok := ask("Table name: "); ok && t != "" {
				err = a.printDDL(ctx, t)
			}
		case "3":
			err = a.update(ctx, "")
		case "4":
			if t, ok := ask("Table name: "); ok && t != "" {
				err = a.update(ctx, t)
			}
		default:
			fmt.Fprintln(a.out, "Unknown option.")
		}
		if err != nil {
			printError(a.errw, err)
		}
	}
}
