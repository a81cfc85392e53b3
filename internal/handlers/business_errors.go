package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-api/internal/httperr"
)

// ======================================================
// MAPEAMENTO DE ERROS DE NEGÓCIO -> HTTP
// ======================================================

type businessMapping struct {
	write   func(c *gin.Context, code, message string)
	message string
}

var businessMappings = map[string]businessMapping{
	"account_not_found":     {httperr.NotFound, "Conta não encontrada."},
	"appointment_not_found": {httperr.NotFound, "Agendamento não encontrado."},
	"modality_not_found":    {httperr.NotFound, "Modalidade não encontrada."},
	"client_not_found":      {httperr.NotFound, "Cliente não encontrado."},

	"slot_taken":            {httperr.Conflict, "Já existe um agendamento nesse horário."},
	"confirmation_required": {httperr.Conflict, "O cliente possui agendamentos. Confirme o nome para excluir."},
	"confirmation_mismatch": {httperr.Conflict, "O nome informado não confere com o nome do cliente."},

	"invalid_date":         {httperr.BadRequest, "Data inválida."},
	"invalid_date_or_time": {httperr.BadRequest, "Data ou horário inválido."},
	"invalid_status":       {httperr.BadRequest, "Status inválido."},
	"invalid_state":        {httperr.BadRequest, "Operação não permitida no estado atual."},
	"invalid_value":        {httperr.BadRequest, "Valor inválido."},
	"slot_in_the_past":     {httperr.BadRequest, "O horário escolhido já passou."},
	"missing_email":        {httperr.BadRequest, "Informe um e-mail para concluir a reserva."},
}

// traduz erros de negócio conhecidos; o que sobrar vira 500 genérico
func writeBusinessError(c *gin.Context, err error, fallbackCode, fallbackMessage string) {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		if m, ok := businessMappings[be.Code]; ok {
			m.write(c, be.Code, m.message)
			return
		}
	}
	httperr.Internal(c, fallbackCode, fallbackMessage)
}
