package main

import (
	"context"
	"net/http"

	"github.com/myrjola/reaksi/internal/contexthelpers"
	"github.com/myrjola/reaksi/internal/errors"
	"github.com/myrjola/reaksi/internal/metrics"
	"github.com/myrjola/reaksi/internal/models"
	"github.com/myrjola/reaksi/internal/submissions"
)

const (
	noticeMissingIdentity = "Mohon isi identitas kelompok!"
	noticeMissingAnswers  = "Mohon jawab semua pertanyaan analisis!"
	noticeInFlight        = "Jawaban kelompokmu sedang dianalisis. Tunggu sebentar."
	noticeRateLimited     = "Terlalu banyak jawaban dikirim. Coba lagi sebentar lagi."
)

func (app *application) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	form := formView{
		GroupName: r.PostForm.Get("group_name"),
		Members:   r.PostForm.Get("members"),
		Answers: models.StudentAnswers{
			Reduction:  r.PostForm.Get(models.AnswerReduction),
			Formation:  r.PostForm.Get(models.AnswerFormation),
			Negative:   r.PostForm.Get(models.AnswerNegative),
			Air:        r.PostForm.Get(models.AnswerAir),
			Definition: r.PostForm.Get(models.AnswerDefinition),
		},
	}
	red := parseRed(r.PostForm.Get("red"))

	if !app.limiter.Allow() {
		app.metrics.CountSubmission(metrics.SubmissionRateLimited)
		app.rejectSubmission(w, r, http.StatusTooManyRequests, noticeRateLimited, form, red)
		return
	}

	taskID, err := app.submissions.Submit(r.Context(), contexthelpers.ClientID(r.Context()), submissions.Input{
		GroupName:  form.GroupName,
		Members:    form.Members,
		RedInitial: red,
		Answers:    form.Answers,
	})
	switch {
	case errors.Is(err, submissions.ErrMissingIdentity):
		app.rejectSubmission(w, r, http.StatusUnprocessableEntity, noticeMissingIdentity, form, red)
		return
	case errors.Is(err, submissions.ErrMissingAnswers):
		app.rejectSubmission(w, r, http.StatusUnprocessableEntity, noticeMissingAnswers, form, red)
		return
	case errors.Is(err, submissions.ErrInFlight):
		app.rejectSubmission(w, r, http.StatusConflict, noticeInFlight, form, red)
		return
	case err != nil:
		app.serverError(w, r, err)
		return
	}

	if app.htmx.NewHandler(w, r).IsHxRequest() {
		app.renderPartial(w, r, http.StatusOK, "pending", resultTemplateData{ //nolint:exhaustruct // partial
			Pending: true,
			TaskID:  taskID,
		})
		return
	}
	http.Redirect(w, r, "/submissions/"+taskID, http.StatusSeeOther)
}

// rejectSubmission shows notice without storing anything. htmx requests only get the notice, otherwise the whole
// form is rendered again with the entered values.
func (app *application) rejectSubmission(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	notice string,
	form formView,
	red int,
) {
	if app.htmx.NewHandler(w, r).IsHxRequest() {
		app.renderPartial(w, r, status, "notice", notice)
		return
	}
	app.render(w, r, status, "home", homeTemplateData{
		BaseTemplateData: BaseTemplateData{CurrentPath: "/"},
		Worksheet:        app.worksheet,
		Simulation:       app.simulationView(red),
		Form:             form,
		Notice:           notice,
	})
}

// submissionResult waits up to the await timeout for the evaluation. When it is still running the pending view is
// rendered, which polls this page again.
func (app *application) submissionResult(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("taskID")
	ctx, cancel := context.WithTimeout(r.Context(), app.awaitTimeout)
	defer cancel()

	data := resultTemplateData{
		BaseTemplateData: app.baseData(r),
		Pending:          false,
		TaskID:           taskID,
		Submission:       models.Submission{}, //nolint:exhaustruct // filled below
	}
	submission, err := app.submissions.Await(ctx, taskID)
	switch {
	case errors.Is(err, submissions.ErrTaskNotFound):
		app.notFound(w, r)
		return
	case errors.Is(err, context.DeadlineExceeded):
		data.Pending = true
	case err != nil:
		app.serverError(w, r, err)
		return
	default:
		data.Submission = submission
	}

	if app.htmx.NewHandler(w, r).IsHxRequest() {
		partial := "evaluation"
		if data.Pending {
			partial = "pending"
		}
		app.renderPartial(w, r, http.StatusOK, partial, data)
		return
	}
	app.render(w, r, http.StatusOK, "result", data)
}
