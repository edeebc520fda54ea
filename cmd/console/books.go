package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/client/store"
	"github.com/xiebiao/library/internal/domain/book"
)

func newBooksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "图书管理",
	}
	cmd.AddCommand(newBooksListCmd(a), newBooksAddCmd(a), newBooksUpdateCmd(a), newBooksDeleteCmd(a))
	return cmd
}

func newBooksListCmd(a *app) *cobra.Command {
	var (
		filter    book.ListFilter
		available bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "查询图书",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.store.LoadBooks(cmd.Context()); err != nil {
				return err
			}
			st := a.store.State()
			if available {
				st.Books = store.AvailableBooks(st)
			}
			return a.printBooks(store.FilterBooks(st, filter))
		},
	}
	cmd.Flags().StringVarP(&filter.Keyword, "keyword", "k", "", "按标题、作者、ISBN搜索")
	cmd.Flags().StringVarP(&filter.Genre, "genre", "g", "", "按类别过滤")
	cmd.Flags().BoolVar(&available, "available", false, "只显示有可借副本的图书")
	return cmd
}

func newBooksAddCmd(a *app) *cobra.Command {
	var form book.FormData
	cmd := &cobra.Command{
		Use:   "add",
		Short: "新增图书",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.store.AddBook(cmd.Context(), form)
			if err != nil {
				return err
			}
			return a.printBooks([]*book.Book{b})
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.Title, "title", "", "书名")
	f.StringVar(&form.Author, "author", "", "作者")
	f.StringVar(&form.Genre, "genre", "", "类别")
	f.StringVar(&form.ISBN, "isbn", "", "ISBN")
	f.StringVar(&form.PublishedDate, "published", "", "出版日期(YYYY-MM-DD)")
	f.IntVar(&form.TotalCopies, "copies", 1, "馆藏数量")
	f.StringVar(&form.Description, "description", "", "简介")
	return cmd
}

func newBooksUpdateCmd(a *app) *cobra.Command {
	var (
		title, author, genre, isbn, published, description string
		copies                                             int
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "修改图书",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			patch := book.Patch{
				Title:         stringFlag(f.Changed("title"), title),
				Author:        stringFlag(f.Changed("author"), author),
				Genre:         stringFlag(f.Changed("genre"), genre),
				ISBN:          stringFlag(f.Changed("isbn"), isbn),
				PublishedDate: stringFlag(f.Changed("published"), published),
				Description:   stringFlag(f.Changed("description"), description),
			}
			if f.Changed("copies") {
				patch.TotalCopies = &copies
			}
			b, err := a.store.UpdateBook(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return a.printBooks([]*book.Book{b})
		},
	}
	f := cmd.Flags()
	f.StringVar(&title, "title", "", "书名")
	f.StringVar(&author, "author", "", "作者")
	f.StringVar(&genre, "genre", "", "类别")
	f.StringVar(&isbn, "isbn", "", "ISBN")
	f.StringVar(&published, "published", "", "出版日期(YYYY-MM-DD)")
	f.IntVar(&copies, "copies", 0, "馆藏数量")
	f.StringVar(&description, "description", "", "简介")
	return cmd
}

func newBooksDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "删除图书(有未归还借阅时拒绝)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.DeleteBook(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "已删除图书 %s\n", args[0])
			return nil
		},
	}
}

func (a *app) printBooks(books []*book.Book) error {
	return a.render(books, "ID\tTITLE\tAUTHOR\tGENRE\tISBN\tAVAILABLE", func(w *tabwriter.Writer) {
		for _, b := range books {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d/%d\n",
				b.ID, b.Title, b.Author, b.Genre, b.ISBN, b.AvailableCopies, b.TotalCopies)
		}
	})
}
